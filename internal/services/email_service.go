package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendApprovalEmail(email, firstName string) error
	SendRejectionEmail(email, firstName string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendApprovalEmail(email, firstName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your MedResearch account has been approved")

	body := fmt.Sprintf(`
		<h2>Welcome to MedResearch, %s!</h2>
		<p>Your registration has been reviewed and approved.</p>
		<p>You can now log in with your email and password. On your first
		login you will be asked to set up two-factor authentication.</p>
		<p>Best regards,<br>The MedResearch Team</p>
	`, firstName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send approval email: %w", err)
	}
	return nil
}

func (s *emailService) SendRejectionEmail(email, firstName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your MedResearch registration")

	body := fmt.Sprintf(`
		<h3>Hello %s,</h3>
		<p>Unfortunately your registration request could not be approved.</p>
		<p>If you believe this is a mistake, please contact the study
		administrator.</p>
	`, firstName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send rejection email: %w", err)
	}
	return nil
}
