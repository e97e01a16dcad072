package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/tcgbay/marketplace/internal/app/config"
	"github.com/tcgbay/marketplace/internal/platform/logger"
)

// Sender delivers marketplace notification emails over SMTP. Failures are
// logged and swallowed by callers; email is best-effort.
type Sender interface {
	SendOfferReceived(toEmail, listingTitle string, amount float64) error
	SendListingSold(toEmail, listingTitle string, amount float64) error
	SendArchiveExpiryWarning(toEmail, listingTitle string, daysLeft int) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
	log    logger.Logger
}

func NewSMTPSender(cfg config.SMTPConfig, log logger.Logger) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.SenderEmail,
		log:    log,
	}
}

func (s *smtpSender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *smtpSender) SendOfferReceived(toEmail, listingTitle string, amount float64) error {
	return s.send(toEmail,
		"New offer on your listing",
		fmt.Sprintf("You received an offer of %.2f on '%s'. It expires in 48 hours.", amount, listingTitle),
	)
}

func (s *smtpSender) SendListingSold(toEmail, listingTitle string, amount float64) error {
	return s.send(toEmail,
		"Your card sold",
		fmt.Sprintf("'%s' sold for %.2f. The order is waiting for shipment.", listingTitle, amount),
	)
}

func (s *smtpSender) SendArchiveExpiryWarning(toEmail, listingTitle string, daysLeft int) error {
	return s.send(toEmail,
		"Archived listing about to be deleted",
		fmt.Sprintf("'%s' will be permanently deleted in %d day(s). Restore it to keep it.", listingTitle, daysLeft),
	)
}
