package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/monowartv/iptv-backend/internal/pkg/env"
)

// SendMail sends an email via SMTP
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnvInt("SMTP_PORT", 587)
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%d", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendOtpMail sends a one-time verification code
func SendOtpMail(to string, code string) error {
	body := fmt.Sprintf(
		"<p>Your verification code is:</p><h2>%s</h2><p>The code expires in 5 minutes.</p>",
		code,
	)
	return SendMail(to, "Your verification code", body)
}

// SendSubscriptionExpiryMail warns a user about an expiring subscription
func SendSubscriptionExpiryMail(to string, tier string, daysLeft int) error {
	body := fmt.Sprintf(
		"<p>Your <strong>%s</strong> subscription expires in %d day(s).</p><p>Renew now to keep watching without interruption.</p>",
		tier, daysLeft,
	)
	return SendMail(to, "Your subscription is expiring soon", body)
}
