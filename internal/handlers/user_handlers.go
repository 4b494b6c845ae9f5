package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"

	"github.com/cartbound/storefront-golang/internal/models"
)

//
// --- Account Handlers ---
//

// RegisterInput is the accepted registration payload. It is separate
// from models.User so clients cannot set id, role, or status.
type RegisterInput struct {
	FullName    string  `json:"fullName" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	PhoneNumber *string `json:"phoneNumber"`
	// Sellers self-register with seller=true; admins are seeded.
	Seller bool `json:"seller"`
}

// Register is the handler for POST /v1/register
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	role := models.RoleCustomer
	if input.Seller {
		role = models.RoleSeller
	}

	now := time.Now()
	user := &models.User{
		Role:        role,
		Status:      "active",
		Email:       input.Email,
		FullName:    input.FullName,
		PhoneNumber: input.PhoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	user.PasswordHash = password.Hash

	query := `
		INSERT INTO users (role, status, email, password_hash, full_name, phone_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := h.DB.Exec(query,
		user.Role, user.Status, user.Email, user.PasswordHash,
		user.FullName, user.PhoneNumber, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}
	user.ID, _ = result.LastInsertId()

	token, err := h.Tokens.Generate(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account created but token generation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  user,
		"token": token,
	})
}

// LoginInput is the accepted login payload.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	query := `
		SELECT id, role, status, email, password_hash, full_name, created_at, updated_at
		FROM users WHERE email = ?`
	err := h.DB.QueryRow(query, input.Email).Scan(
		&user.ID, &user.Role, &user.Status, &user.Email,
		&user.PasswordHash, &user.FullName, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		// Same response for unknown email and wrong password.
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil || !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if user.Status != "active" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is suspended"})
		return
	}

	token, err := h.Tokens.Generate(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// GetMyProfile is the handler for GET /v1/me
func (h *Handlers) GetMyProfile(c *gin.Context) {
	userID := currentUserID(c)

	var user models.User
	query := `
		SELECT id, role, status, email, full_name, phone_number, created_at, updated_at
		FROM users WHERE id = ?`
	err := h.DB.QueryRow(query, userID).Scan(
		&user.ID, &user.Role, &user.Status, &user.Email,
		&user.FullName, &user.PhoneNumber, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfileInput is the accepted profile-update payload.
type UpdateProfileInput struct {
	FullName    *string `json:"fullName"`
	PhoneNumber *string `json:"phoneNumber"`
}

// UpdateMyProfile is the handler for PATCH /v1/me
func (h *Handlers) UpdateMyProfile(c *gin.Context) {
	userID := currentUserID(c)

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.FullName == nil && input.PhoneNumber == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	query := `
		UPDATE users
		SET full_name = COALESCE(?, full_name),
		    phone_number = COALESCE(?, phone_number),
		    updated_at = ?
		WHERE id = ?`
	if _, err := h.DB.Exec(query, input.FullName, input.PhoneNumber, time.Now(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}
