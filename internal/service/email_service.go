package service

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/swim360/swim360-backend/internal/config"
	"github.com/swim360/swim360-backend/internal/logger"
)

// EmailService отправляет транзакционные письма через SMTP.
// Без настроенного SMTP (development) письма не отправляются,
// а код печатается в лог, чтобы сценарий регистрации оставался проходимым.
type EmailService struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

// NewEmailService создаёт почтовый сервис из конфигурации.
func NewEmailService(cfg *config.Config) *EmailService {
	svc := &EmailService{
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}

	if cfg.SMTPHost != "" && cfg.SMTPUser != "" {
		svc.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	} else {
		logger.Log.Warn("email service: SMTP не настроен, письма будут печататься в лог")
	}

	return svc
}

// SendVerificationCode отправляет письмо с кодом подтверждения email.
func (s *EmailService) SendVerificationCode(email, code string) error {
	if s.dialer == nil {
		// Dev-режим: код нужен разработчику здесь и сейчас.
		fmt.Printf("VERIFICATION CODE FOR %s: %s\n", email, code)
		return nil
	}

	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background: #f5f5f5; padding: 20px;">
				<div style="max-width: 600px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px;">
					<h1 style="color: #0077BE; text-align: center;">Swim360</h1>
					<p style="color: #666;">Thanks for signing up with Swim360. Your verification code is:</p>
					<div style="text-align: center; margin: 30px 0;">
						<span style="font-size: 32px; font-weight: bold; color: #0077BE; letter-spacing: 8px;">%s</span>
					</div>
					<p style="color: #666;">This code is valid for 5 minutes. Do not share it with anyone.</p>
					<p style="color: #999; font-size: 12px; text-align: center;">If you didn't request this, please ignore this email.</p>
				</div>
			</body>
		</html>`, code)

	return s.send(email, "Verify your Swim360 account", body)
}

// SendWelcome отправляет приветственное письмо после подтверждения email.
func (s *EmailService) SendWelcome(email, name string) error {
	if s.dialer == nil {
		return nil
	}

	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background: #f5f5f5; padding: 20px;">
				<div style="max-width: 600px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px;">
					<h1 style="color: #0077BE; text-align: center;">Swim360</h1>
					<h2 style="color: #2C3E50;">Welcome aboard, %s!</h2>
					<p style="color: #666;">Your email is verified. Explore swimming and fitness services, shop gear on the marketplace, and chat with coaches — all in one place.</p>
				</div>
			</body>
		</html>`, name)

	return s.send(email, "Welcome to Swim360", body)
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.fromEmail, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("email service: send to %s: %w", to, err)
	}
	return nil
}
