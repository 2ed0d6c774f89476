package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/cmlabs-hris/attrition-backend-go/internal/config"
)

// AlertSender notifies a manager that one of their reports was flagged as
// high attrition risk. Implementations must be safe for concurrent use.
type AlertSender interface {
	SendHighRiskAlert(to string, employeeName string, employeeID string, score float64) error
}

type smtpAlertSender struct {
	cfg config.SMTPConfig
}

// NewAlertSender creates an SMTP-backed alert sender. Returns nil when no
// SMTP host is configured; callers treat a nil sender as alerts disabled.
func NewAlertSender(cfg config.SMTPConfig) AlertSender {
	if cfg.Host == "" {
		return nil
	}
	return &smtpAlertSender{cfg: cfg}
}

func (s *smtpAlertSender) SendHighRiskAlert(to string, employeeName string, employeeID string, score float64) error {
	subject := fmt.Sprintf("Attrition risk alert: %s", employeeName)
	body := fmt.Sprintf(
		"Employee %s (%s) has been classified as high attrition risk with a composite score of %.1f.\r\n"+
			"Please review their recent attendance history and consider a retention conversation.\r\n",
		employeeName, employeeID, score,
	)

	var msg strings.Builder
	msg.WriteString("From: " + s.cfg.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}
