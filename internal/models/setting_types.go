package models

// Setting is a row in the key/value 'settings' table.
type Setting struct {
	Key   string `json:"key" db:"setting_key"`
	Value string `json:"value" db:"setting_value"`
}

// Well-known setting keys.
const (
	SettingMaintenanceMode = "maintenance_mode"
	SettingStoreName       = "store_name"
	SettingSupportEmail    = "support_email"
)
