package mailer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	gomail "gopkg.in/mail.v2"
)

type fakeDialer struct {
	failures int
	calls    int
	sent     []*gomail.Message
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection refused")
	}
	f.sent = append(f.sent, m...)
	return nil
}

var resetData = struct {
	Username  string
	ResetURL  string
	ExpiresIn string
}{"Clara", "https://taktivent.test/reset?token=abc", "1 hour"}

func TestSendRendersTemplate(t *testing.T) {
	d := &fakeDialer{}
	c := &SMTPClient{fromEmail: "noreply@taktivent.test", dialer: d}

	status, err := c.Send(ResetPasswordTemplate, "Clara", "clara@example.com", resetData)
	if err != nil || status != 200 {
		t.Fatalf("Send() = %d, %v", status, err)
	}
	if len(d.sent) != 1 {
		t.Fatalf("sent %d messages", len(d.sent))
	}

	msg := d.sent[0]
	if got := msg.GetHeader("Subject"); len(got) != 1 || got[0] != "Reset your Taktivent password" {
		t.Errorf("Subject = %v", got)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "token=3Dabc") && !strings.Contains(buf.String(), "token=abc") {
		t.Error("body does not carry the reset link")
	}
}

func TestSendRetries(t *testing.T) {
	d := &fakeDialer{failures: 2}
	c := &SMTPClient{fromEmail: "noreply@taktivent.test", dialer: d}

	if _, err := c.Send(ResetPasswordTemplate, "Clara", "clara@example.com", resetData); err != nil {
		t.Fatalf("expected success on third attempt: %v", err)
	}
	if d.calls != 3 {
		t.Errorf("calls = %d, want 3", d.calls)
	}
}

func TestSendGivesUp(t *testing.T) {
	d := &fakeDialer{failures: maxRetires}
	c := &SMTPClient{fromEmail: "noreply@taktivent.test", dialer: d}

	if _, err := c.Send(ResetPasswordTemplate, "Clara", "clara@example.com", resetData); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

func TestNewSMTPClientRequiresHost(t *testing.T) {
	if _, err := NewSMTPClient("", 587, "", "", "a@b.c"); err == nil {
		t.Error("empty host accepted")
	}
}
