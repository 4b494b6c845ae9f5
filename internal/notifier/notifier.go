package notifier

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Service sends order-confirmation email over SMTP. Delivery is
// best-effort with a single attempt: callers log failures and move on,
// and a failure never affects the order it refers to.
type Service struct {
	host string
	port string
	from string
}

func NewService(host, port, from string) *Service {
	return &Service{host: host, port: port, from: from}
}

// Item is one purchased line for display in the confirmation body.
type Item struct {
	Name      string
	Quantity  int
	UnitPrice string
}

// SendOrderConfirmation emails the buyer a summary of the paid order.
func (s *Service) SendOrderConfirmation(to string, orderID int64, total string, items []Item) error {
	if to == "" {
		return fmt.Errorf("notifier: no recipient address")
	}
	subject := fmt.Sprintf("Order #%d confirmed", orderID)
	body := buildConfirmationBody(orderID, total, items)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}

func buildConfirmationBody(orderID int64, total string, items []Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order!\n\nOrder number: %d\n\n", orderID)
	for _, item := range items {
		fmt.Fprintf(&b, "  %dx %s @ %s\n", item.Quantity, item.Name, item.UnitPrice)
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\nThis is an automated message; replies are not monitored.\n", total)
	return b.String()
}
