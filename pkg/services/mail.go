package services

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer delivers a single HTML email
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer sends mail through an authenticated SMTP relay (Gmail by default)
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

// NewSMTPMailer creates an SMTP mailer
func NewSMTPMailer(host, port, username, password string) *SMTPMailer {
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		FromName: "Radhe Enterprise Pvt. Ltd.",
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.FromName, m.Username, to, subject, htmlBody)

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.Username, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}

	log.Printf("📧 Mail %q sent to %s", subject, to)
	return nil
}

// LogMailer prints mail to the console; used when SMTP credentials are not configured
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	log.Printf("📧 [DEV MODE] Mail to %s: %s\n%s", to, subject, stripTags(htmlBody))
	return nil
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// RegistrationOTPEmail renders the signup OTP mail
func RegistrationOTPEmail(code string) (subject, body string) {
	return "Your OTP Code", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; background-color: #f4f4f4; border-radius: 5px;">
			<h2 style="color: #333;">Welcome to Radhe Enterprise Pvt. Ltd.!</h2>
			<p style="color: #555;">Thank you for registering. Please use the following One-Time Password (OTP) to complete your registration:</p>
			<h1 style="font-size: 36px; color: #4CAF50; text-align: center; padding: 10px; border: 2px solid #4CAF50; border-radius: 5px; display: inline-block;">%s</h1>
			<p style="color: #555;">This OTP is valid for <strong>10 minutes</strong>.</p>
			<p style="color: #555;">If you did not request this, please ignore this email.</p>
			<footer style="margin-top: 20px; font-size: 12px; color: #777;">
				<p>Best Regards,<br>Radhe Enterprise Pvt. Ltd.</p>
			</footer>
		</div>`, code)
}

// PasswordResetOTPEmail renders the forgot-password OTP mail
func PasswordResetOTPEmail(code string) (subject, body string) {
	return "Password Reset OTP - Radhe Enterprise Pvt. Ltd.", fmt.Sprintf(`
		<div style="max-width: 600px; margin: auto; font-family: Arial, sans-serif; padding: 20px; background-color: #ffffff; border-radius: 10px;">
			<h2 style="color: #333; text-align: center;">Password Reset Request</h2>
			<p style="color: #555; text-align: center;">Use the following OTP to reset your password:</p>
			<div style="text-align: center; margin: 20px 0;">
				<span style="font-size: 32px; font-weight: bold; color: #4CAF50; padding: 10px 20px; border: 2px solid #4CAF50; border-radius: 5px; display: inline-block;">%s</span>
			</div>
			<p style="color: #555; text-align: center;">This OTP is valid for <strong>15 minutes</strong>.</p>
			<p style="color: #555; text-align: center;">If you did not request this, please ignore this email.</p>
		</div>`, code)
}

// InquiryEmail renders a storefront contact inquiry
func InquiryEmail(from, inquiry string) (subject, body string) {
	return "New Inquiry", fmt.Sprintf(`<p>Inquiry from %s:</p><pre>%s</pre>`, escapeHTML(from), escapeHTML(inquiry))
}

func escapeHTML(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}
