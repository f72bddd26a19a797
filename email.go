package followerwatch

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// EmailNotifier announces new followers with a plain-text email sent over
// SMTP with STARTTLS.
type EmailNotifier struct {
	Email EmailConfig

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	log  *zap.SugaredLogger
}

// NewEmailNotifier returns a notifier that emails cfg.To from cfg.From via
// cfg.Host:cfg.Port.
func NewEmailNotifier(cfg EmailConfig, options ...func(*EmailNotifier)) *EmailNotifier {
	en := &EmailNotifier{
		Email: cfg,
		send:  smtp.SendMail,
		log:   zap.NewNop().Sugar(),
	}
	for _, o := range options {
		o(en)
	}
	return en
}

// WithEmailLogger is an option that can be passed to NewEmailNotifier to
// set the *zap.SugaredLogger the notifier will use internally.
func WithEmailLogger(logger *zap.SugaredLogger) func(*EmailNotifier) {
	return func(en *EmailNotifier) {
		en.log = logger
	}
}

// Notify sends one email covering the whole batch. The SMTP exchange is not
// cancellable mid-send; ctx is accepted for interface symmetry.
func (en *EmailNotifier) Notify(ctx context.Context, handles []string) error {
	_ = ctx
	addr := fmt.Sprintf("%s:%d", en.Email.Host, en.Email.Port)
	auth := smtp.PlainAuth("", en.Email.From, en.Email.Password, en.Email.Host)
	msg := buildEmailMessage(en.Email.From, en.Email.To, handles)

	if err := en.send(addr, auth, en.Email.From, []string{en.Email.To}, msg); err != nil {
		return errors.Wrapf(err, "error sending email via %s", addr)
	}
	en.log.Infow("email notification sent",
		"to", en.Email.To, "new_followers", len(handles))
	return nil
}

func buildEmailMessage(from, to string, handles []string) []byte {
	subject := "New GitHub Follower!"
	if len(handles) > 1 {
		subject = "New GitHub Followers!"
	}

	var body strings.Builder
	body.WriteString("Hi there!\r\n\r\n")
	if len(handles) == 1 {
		body.WriteString("You have a new follower on GitHub!\r\n\r\n")
	} else {
		fmt.Fprintf(&body, "You have %d new followers on GitHub!\r\n\r\n", len(handles))
	}
	for _, h := range handles {
		fmt.Fprintf(&body, "%s - https://github.com/%s\r\n", h, h)
	}
	body.WriteString("\r\nKeep up the great work!\r\n\r\n--\r\nfollower-watch\r\n")

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body.String())
	return []byte(msg.String())
}
