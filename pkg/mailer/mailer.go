// Package mailer sends transactional and promotional email through SendGrid.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGrid delivers messages through the SendGrid v3 API.
type SendGrid struct {
	client sendClient
	from   *mail.Email
}

func NewSendGrid(apiKey, fromName, fromAddress string) (*SendGrid, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
	}
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
	}, nil
}

func (s *SendGrid) Send(ctx context.Context, m Message) error {
	to := mail.NewEmail(m.ToName, m.ToEmail)
	message := mail.NewSingleEmail(s.from, m.Subject, to, m.Text, m.HTML)
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send to %s: %w", m.ToEmail, err)
	}
	if response.StatusCode >= 400 {
		log.Printf("[mail] SendGrid API error: status %d, body: %s", response.StatusCode, response.Body)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}
	return nil
}

// LogSender only logs what would be sent.
type LogSender struct{}

func (LogSender) Send(_ context.Context, m Message) error {
	log.Printf("[mail] dry run: %q to %s <%s>", m.Subject, m.ToName, m.ToEmail)
	return nil
}

type Recipient struct {
	Name  string
	Email string
}

// Campaign is one promotional mail. "{name}" in Text and HTML is replaced
// with the recipient's name.
type Campaign struct {
	Subject string
	Text    string
	HTML    string
}

// Broadcast sends c to every recipient, carrying on past individual
// failures. It returns how many were sent and the joined failures.
func Broadcast(ctx context.Context, sender Sender, recipients []Recipient, c Campaign) (int, error) {
	var (
		sent int
		errs []error
	)
	for _, r := range recipients {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		err := sender.Send(ctx, Message{
			ToName:  r.Name,
			ToEmail: r.Email,
			Subject: c.Subject,
			Text:    strings.ReplaceAll(c.Text, "{name}", r.Name),
			HTML:    strings.ReplaceAll(c.HTML, "{name}", r.Name),
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}
