// Package mailer sends the application's transactional mail: user
// invitations and the admin's monthly hours report.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/Kasperversteeg/kade-shifts/config"
)

// ReportRow is one user's line in the monthly report mail.
type ReportRow struct {
	Name         string
	Email        string
	TotalHours   string
	EntriesCount int
}

// Mailer sends application mail. Implemented by SMTPMailer; services
// depend on this interface so tests can stub delivery out.
type Mailer interface {
	SendInvitation(to, inviteURL string, expiresAt time.Time) error
	SendMonthlyReport(to, month string, rows []ReportRow, grandTotal string) error
}

// SMTPMailer delivers mail over SMTP via gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewSMTPMailer creates a mailer from SMTP configuration.
func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

var invitationTmpl = template.Must(template.New("invitation").Parse(`<html>
<body style="font-family: sans-serif; color: #1f2937;">
  <h2>You're invited to join Kade Shifts</h2>
  <p>An administrator has invited you to register your working hours.</p>
  <p><a href="{{.URL}}" style="background: #2563eb; color: #fff; padding: 10px 18px; border-radius: 6px; text-decoration: none;">Accept invitation</a></p>
  <p>This invitation expires on {{.ExpiresAt}}.</p>
  <p>If you weren't expecting this email, you can ignore it.</p>
</body>
</html>`))

var reportTmpl = template.Must(template.New("report").Parse(`<html>
<body style="font-family: sans-serif; color: #1f2937;">
  <h2>Monthly Hours Report - {{.Month}}</h2>
  <p>Here's the summary of hours worked this month:</p>
  <table cellpadding="6" cellspacing="0" border="1" style="border-collapse: collapse;">
    <tr><th align="left">Name</th><th align="left">Email</th><th align="right">Hours</th><th align="right">Entries</th></tr>
    {{range .Rows}}<tr><td>{{.Name}}</td><td>{{.Email}}</td><td align="right">{{.TotalHours}}</td><td align="right">{{.EntriesCount}}</td></tr>
    {{end}}<tr><td><strong>Total</strong></td><td></td><td align="right"><strong>{{.GrandTotal}}</strong></td><td></td></tr>
  </table>
</body>
</html>`))

// SendInvitation mails the tokenized signup link to the invitee.
func (m *SMTPMailer) SendInvitation(to, inviteURL string, expiresAt time.Time) error {
	var body bytes.Buffer
	err := invitationTmpl.Execute(&body, map[string]string{
		"URL":       inviteURL,
		"ExpiresAt": expiresAt.Format("2 January 2006"),
	})
	if err != nil {
		return fmt.Errorf("render invitation mail: %w", err)
	}

	return m.send(to, "You're invited to join Kade Shifts", body.String())
}

// SendMonthlyReport mails the per-user hours summary to an admin.
func (m *SMTPMailer) SendMonthlyReport(to, month string, rows []ReportRow, grandTotal string) error {
	var body bytes.Buffer
	err := reportTmpl.Execute(&body, map[string]interface{}{
		"Month":      month,
		"Rows":       rows,
		"GrandTotal": grandTotal,
	})
	if err != nil {
		return fmt.Errorf("render report mail: %w", err)
	}

	return m.send(to, fmt.Sprintf("Monthly Hours Report - %s", month), body.String())
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("send mail failed", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.Info("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
