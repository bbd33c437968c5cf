package email

import (
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edumanage/educenter/internal/app/models"
)

// Mailer sends messages to parents
type Mailer interface {
	// Enabled reports whether messages are actually delivered
	Enabled() bool
	SendAbsenceNotice(toEmail, toName string, notice *models.AbsenceNotice) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// Configured reports whether credentials are present
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// SMTPMailer implements Mailer over SMTP
type SMTPMailer struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewMailer creates a new SMTPMailer
func NewMailer(config SMTPConfig, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		logger: logger,
	}
}

// Enabled reports whether SMTP credentials are configured
func (s *SMTPMailer) Enabled() bool {
	return s.config.Configured()
}

var absenceTemplate = template.Must(template.New("absence").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<p>Kính gửi {{.ParentName}},</p>
		<p>Học viên <strong>{{.StudentName}}</strong> đã vắng mặt buổi học lớp <strong>{{.ClassName}}</strong>
		ngày {{.Date}} lúc {{.StartTime}}.</p>
		<p>Quý phụ huynh vui lòng liên hệ trung tâm nếu cần hỗ trợ.</p>
		<p>Trân trọng,<br>{{.Center}}</p>
	</div>
</body>
</html>`))

// AbsenceSubject returns the subject line of an absence notice
func AbsenceSubject(notice *models.AbsenceNotice) string {
	return fmt.Sprintf("Thông báo vắng mặt: %s (%s)", notice.StudentName, notice.SessionDate.Format("02/01/2006"))
}

// RenderAbsenceBody renders the HTML body of an absence notice
func RenderAbsenceBody(toName, center string, notice *models.AbsenceNotice) (string, error) {
	var b strings.Builder
	err := absenceTemplate.Execute(&b, map[string]string{
		"ParentName":  toName,
		"StudentName": notice.StudentName,
		"ClassName":   notice.ClassName,
		"Date":        notice.SessionDate.Format("02/01/2006"),
		"StartTime":   notice.StartTime,
		"Center":      center,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render absence notice: %w", err)
	}
	return b.String(), nil
}

// SendAbsenceNotice tells a parent that their child missed a session
func (s *SMTPMailer) SendAbsenceNotice(toEmail, toName string, notice *models.AbsenceNotice) error {
	if !s.config.Configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("student", notice.StudentName).
			Str("sessionID", notice.SessionID).
			Msg("SMTP credentials not configured - absence notice not sent")
		return nil
	}

	body, err := RenderAbsenceBody(toName, s.config.FromName, notice)
	if err != nil {
		return err
	}
	return s.sendHTMLEmail(toEmail, AbsenceSubject(notice), body)
}

// headerValue drops line breaks so stored names cannot inject headers
func headerValue(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}

func (s *SMTPMailer) buildMessage(toEmail, subject, htmlBody string) []byte {
	from := mail.Address{Name: headerValue(s.config.FromName), Address: headerValue(s.config.FromEmail)}
	headers := [][2]string{
		{"From", from.String()},
		{"To", headerValue(toEmail)},
		{"Subject", mime.QEncoding.Encode("utf-8", headerValue(subject))},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}

	var b strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h[0], h[1])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

func (s *SMTPMailer) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	message := s.buildMessage(toEmail, subject, htmlBody)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
