// Package notify renders and sends transactional email.
package notify

import (
	"github.com/pkg/errors"
	gomail "gopkg.in/gomail.v2"
)

type Sender interface {
	Send(to, subject, html string) error
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Enabled reports whether enough is set to reach a server.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Port > 0 && c.From != ""
}

type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender returns nil when cfg is not enabled.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if !cfg.Enabled() {
		return nil
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Pass)
	return errors.Wrapf(d.DialAndSend(m), "send mail to %s", to)
}
