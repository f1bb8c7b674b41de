package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/petmily/vetcare-api/internal/config"
)

// Service sends transactional mail. Failures are the caller's to ignore;
// notifications never gate a request.
type Service interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendReservationStatus(ctx context.Context, to, hospitalName, status string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

// NewService builds an SMTP-backed sender, or a no-op sender when no SMTP
// host is configured.
func NewService(cfg config.SMTPConfig) Service {
	if cfg.Host == "" {
		return &noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nYour account is ready. Find a vet and book your first visit any time.", name)
	return s.send(to, "Welcome to Petmily", body)
}

func (s *smtpService) SendReservationStatus(ctx context.Context, to, hospitalName, status string) error {
	body := fmt.Sprintf("Your reservation at %s is now %s.", hospitalName, status)
	return s.send(to, "Reservation update", body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

type noopService struct{}

func (n *noopService) SendWelcome(ctx context.Context, to, name string) error {
	log.Debug().Str("to", to).Msg("mail disabled, skipping welcome mail")
	return nil
}

func (n *noopService) SendReservationStatus(ctx context.Context, to, hospitalName, status string) error {
	log.Debug().Str("to", to).Msg("mail disabled, skipping reservation mail")
	return nil
}
