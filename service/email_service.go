package service

import (
	"bytes"
	"fmt"
	"go-booking-api/config"
	"go-booking-api/logger"
	"html/template"
	"net/smtp"
	"time"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:24px;font-family:-apple-system,'Segoe UI',Roboto,sans-serif;background-color:#f3f4f6;">
  <div style="max-width:560px;margin:0 auto;background:#ffffff;border-radius:12px;padding:32px;">
    <h1 style="margin:0 0 8px 0;font-size:22px;color:#111827;">Appointment Confirmed</h1>
    <p style="margin:0 0 24px 0;color:#6b7280;">Hi {{if .Name}}{{.Name}}{{else}}there{{end}}, your consultation is booked.</p>
    <div style="background:#f9fafb;border-radius:8px;padding:20px;margin-bottom:24px;">
      <p style="margin:0 0 4px 0;font-size:12px;text-transform:uppercase;color:#6b7280;">Date</p>
      <p style="margin:0 0 12px 0;font-weight:600;color:#111827;">{{.Date}}</p>
      <p style="margin:0 0 4px 0;font-size:12px;text-transform:uppercase;color:#6b7280;">Time ({{.Duration}}-minute session)</p>
      <p style="margin:0;font-weight:600;color:#111827;">{{.TimeRange}} (UTC)</p>
    </div>
    {{if .Message}}<p style="margin:0 0 8px 0;color:#374151;"><strong>Your message:</strong></p>
    <p style="margin:0 0 24px 0;color:#6b7280;font-size:14px;">{{.Message}}</p>{{end}}
    <p style="margin:0;font-size:14px;color:#374151;">If you need to reschedule or cancel, please contact us.</p>
  </div>
</body>
</html>
`))

var adminNotificationTmpl = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:24px;font-family:-apple-system,'Segoe UI',Roboto,sans-serif;">
  <h2 style="margin:0 0 16px 0;">New booking</h2>
  <p style="margin:0 0 8px 0;">{{if .Name}}{{.Name}} ({{.Email}}){{else}}{{.Email}}{{end}} booked a {{.Duration}}-minute session.</p>
  <p style="margin:0 0 8px 0;"><strong>{{.Date}}</strong>, {{.TimeRange}} (UTC)</p>
  {{if .Message}}<p style="margin:0;">Message: {{.Message}}</p>{{end}}
</body>
</html>
`))

type emailData struct {
	Name      string
	Email     string
	Date      string
	TimeRange string
	Duration  int
	Message   string
}

// EmailService sends booking notifications over SMTP. Sends are best-effort:
// failures are logged, never surfaced to the booking flow, and the service
// is a no-op when SMTP is not configured.
type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendBookingConfirmation emails the booker. Intended to run on its own
// goroutine, off the request's critical path.
func (s *EmailService) SendBookingConfirmation(toEmail, name string, slotStart time.Time, durationMinutes int, message string) {
	subject := fmt.Sprintf("%s – Appointment Confirmed", s.cfg.SMTP.FromName)
	s.render(toEmail, subject, confirmationTmpl, emailData{
		Name:      name,
		Email:     toEmail,
		Date:      slotStart.Format("Monday, January 2, 2006"),
		TimeRange: timeRange(slotStart, durationMinutes),
		Duration:  durationMinutes,
		Message:   message,
	})
}

// SendAdminNotification emails the configured admin address about a new
// booking.
func (s *EmailService) SendAdminNotification(userEmail, userName string, slotStart time.Time, durationMinutes int, message string) {
	adminEmail := s.cfg.SMTP.FromEmail
	if adminEmail == "" {
		return
	}
	subject := fmt.Sprintf("%s – New booking for %s", s.cfg.SMTP.FromName, slotStart.Format("Jan 2 15:04"))
	s.render(adminEmail, subject, adminNotificationTmpl, emailData{
		Name:      userName,
		Email:     userEmail,
		Date:      slotStart.Format("Monday, January 2, 2006"),
		TimeRange: timeRange(slotStart, durationMinutes),
		Duration:  durationMinutes,
		Message:   message,
	})
}

func timeRange(start time.Time, durationMinutes int) string {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	return fmt.Sprintf("%s – %s", start.Format("3:04 PM"), end.Format("3:04 PM"))
}

func (s *EmailService) render(toEmail, subject string, tmpl *template.Template, data emailData) {
	if !s.cfg.EmailEnabled() {
		logger.Log.Debug("Email disabled (SMTP not configured), skipping send")
		return
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		logger.Log.WithError(err).Error("Failed to render email template")
		return
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s",
		s.cfg.SMTP.FromName, s.cfg.SMTP.FromEmail, toEmail, subject, body.String())

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTP.Host, s.cfg.SMTP.Port)
	auth := smtp.PlainAuth("", s.cfg.SMTP.User, s.cfg.SMTP.Password, s.cfg.SMTP.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.SMTP.FromEmail, []string{toEmail}, []byte(msg)); err != nil {
		logger.Log.WithError(err).WithField("to", toEmail).Error("Failed to send email")
		return
	}
	logger.Log.WithField("to", toEmail).Info("Email sent")
}
