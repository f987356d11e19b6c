package mailer

import (
	"errors"
	"fmt"
	"time"

	gomail "gopkg.in/mail.v2"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPClient struct {
	fromEmail string
	dialer    sender
	backoff   time.Duration
}

func NewSMTPClient(host string, port int, username, password, fromEmail string) (*SMTPClient, error) {
	if host == "" {
		return nil, errors.New("smtp host is required")
	}
	if fromEmail == "" {
		return nil, errors.New("from email is required")
	}

	d := gomail.NewDialer(host, port, username, password)
	d.Timeout = 10 * time.Second

	return &SMTPClient{fromEmail: fromEmail, dialer: d, backoff: time.Second}, nil
}

// Send renders templateFile and delivers it, retrying with linear backoff.
func (c *SMTPClient) Send(templateFile, username, email string, data any) (int, error) {
	subject, body, err := render(templateFile, data)
	if err != nil {
		return -1, err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", c.fromEmail, FromName)
	msg.SetAddressHeader("To", email, username)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	var lastErr error
	for i := 0; i < maxRetires; i++ {
		if lastErr = c.dialer.DialAndSend(msg); lastErr == nil {
			return 200, nil
		}
		time.Sleep(c.backoff * time.Duration(i+1))
	}

	return -1, fmt.Errorf("failed to send email after %d attempts, error: %w", maxRetires, lastErr)
}
