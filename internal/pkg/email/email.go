package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendDueReminder(toEmail, toName, bookTitle string, dueDate time.Time) error
	SendOverdueNotice(toEmail, toName, bookTitle string, daysOverdue int, fineAmount float64) error
	SendReservationReady(toEmail, toName, bookTitle string, pickupBy time.Time) error
	SendAccountApproved(toEmail, toName string) error
	SendAccountRejected(toEmail, toName, reason string) error
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
	BaseURL   string // Base URL for the application
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendDueReminder notifies a borrower that a loan is due soon
func (s *EmailServiceImpl) SendDueReminder(toEmail, toName, bookTitle string, dueDate time.Time) error {
	if s.skipAndLog("due reminder", toEmail, bookTitle) {
		return nil
	}
	subject := fmt.Sprintf("Reminder: \"%s\" is due on %s", bookTitle, dueDate.Format("January 2, 2006"))

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Your book is due soon</h2>
				<p>Hello %s,</p>
				<p>This is a reminder that <strong>%s</strong> is due back at the library on <strong>%s</strong>.</p>
				<p>You can renew the loan from your account page if you have renewals remaining. Overdue items accrue a daily fine.</p>
				<p>Best regards,<br>The University Library</p>
			</div>
		</body>
		</html>
	`, toName, bookTitle, dueDate.Format("January 2, 2006"))

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendOverdueNotice notifies a borrower that a loan is overdue and fined
func (s *EmailServiceImpl) SendOverdueNotice(toEmail, toName, bookTitle string, daysOverdue int, fineAmount float64) error {
	if s.skipAndLog("overdue notice", toEmail, bookTitle) {
		return nil
	}
	subject := fmt.Sprintf("Overdue: \"%s\"", bookTitle)

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Your book is overdue</h2>
				<p>Hello %s,</p>
				<p><strong>%s</strong> is now <strong>%d day(s)</strong> overdue. A fine of <strong>$%.2f</strong> has been applied to your account and will continue to grow until the book is returned.</p>
				<p>Please return the book to the library desk as soon as possible.</p>
				<p>Best regards,<br>The University Library</p>
			</div>
		</body>
		</html>
	`, toName, bookTitle, daysOverdue, fineAmount)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendReservationReady notifies the head of a reservation queue that a copy is
// being held for pickup
func (s *EmailServiceImpl) SendReservationReady(toEmail, toName, bookTitle string, pickupBy time.Time) error {
	if s.skipAndLog("reservation ready", toEmail, bookTitle) {
		return nil
	}
	subject := fmt.Sprintf("Ready for pickup: \"%s\"", bookTitle)

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Your reserved book is ready</h2>
				<p>Hello %s,</p>
				<p>A copy of <strong>%s</strong> is now being held for you at the library desk.</p>
				<p>Please pick it up by <strong>%s</strong>. After that the hold expires and the copy passes to the next person in the queue.</p>
				<p>Best regards,<br>The University Library</p>
			</div>
		</body>
		</html>
	`, toName, bookTitle, pickupBy.Format("January 2, 2006"))

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendAccountApproved welcomes a newly approved member
func (s *EmailServiceImpl) SendAccountApproved(toEmail, toName string) error {
	if s.skipAndLog("account approved", toEmail, "") {
		return nil
	}
	subject := "Your library account has been approved"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to the University Library</h2>
				<p>Hello %s,</p>
				<p>Your account request has been approved. You can now log in at <a href="%s">%s</a> and start borrowing books.</p>
				<p>Best regards,<br>The University Library</p>
			</div>
		</body>
		</html>
	`, toName, s.config.BaseURL, s.config.BaseURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendAccountRejected informs an applicant that the request was declined
func (s *EmailServiceImpl) SendAccountRejected(toEmail, toName, reason string) error {
	if s.skipAndLog("account rejected", toEmail, "") {
		return nil
	}
	subject := "Your library account request"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Account request declined</h2>
				<p>Hello %s,</p>
				<p>Unfortunately your library account request could not be approved.</p>
				<p>Reason: %s</p>
				<p>If you believe this is a mistake, please contact the library desk.</p>
				<p>Best regards,<br>The University Library</p>
			</div>
		</body>
		</html>
	`, toName, reason)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// skipAndLog reports whether SMTP credentials are missing; the email content
// is logged instead so development setups keep working without a mail server.
func (s *EmailServiceImpl) skipAndLog(kind, toEmail, bookTitle string) bool {
	if s.config.Username != "" && s.config.Password != "" {
		return false
	}
	s.logger.Warn().
		Str("kind", kind).
		Str("toEmail", toEmail).
		Str("bookTitle", bookTitle).
		Msg("SMTP credentials not configured - email not sent")
	return true
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	// Set up authentication information
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	// Set up email headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	// Construct message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	// Use TLS if configured
	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: true,
			ServerName:         s.config.Host,
		}

		// Connect to the SMTP server with TLS
		conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
		if err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create SMTP client")
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		// Authenticate
		if err = client.Auth(auth); err != nil {
			s.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		// Set the sender and recipient
		if err = client.Mail(s.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		if err = client.Rcpt(toEmail); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		// Send the email body
		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		_, err = w.Write([]byte(message))
		if err != nil {
			return fmt.Errorf("failed to write email message: %w", err)
		}
		err = w.Close()
		if err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}

		return nil
	}

	// Simple SMTP without TLS
	err := smtp.SendMail(
		serverAddress,
		auth,
		s.config.FromEmail,
		[]string{toEmail},
		[]byte(message),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
