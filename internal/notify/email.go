package notify

import (
	"fmt"

	"example.com/ferramentas/config"
	"example.com/ferramentas/internal/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Sender delivers notification messages. Delivery failures never roll
// back ledger state; callers invoke Send after their transaction commits.
type Sender interface {
	SendMovementNotice(to string, movement *models.Movement, toolName, requesterName string) error
}

// EmailSender implements Sender over SMTP
type EmailSender struct {
	cfg     config.EmailConfig
	dialer  *gomail.Dialer
	enabled bool
}

// NewEmailSender creates an SMTP notification sender
func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	if !cfg.Enabled {
		return &EmailSender{enabled: false}
	}
	return &EmailSender{
		cfg:     cfg,
		dialer:  gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		enabled: true,
	}
}

// SendMovementNotice renders and sends the movement notification email
func (s *EmailSender) SendMovementNotice(to string, movement *models.Movement, toolName, requesterName string) error {
	if !s.enabled {
		log.Debug().Str("to", to).Msg("Email notifications disabled, skipping")
		return nil
	}

	subject := "Notificação de Devolução de Ferramenta"
	if movement.Type.IsCheckout() {
		subject = "Notificação de Empréstimo de Ferramenta"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", renderBody(movement, toolName, requesterName))

	if err := s.dialer.DialAndSend(msg); err != nil {
		return errors.Wrap(err, "failed to send notification email")
	}

	log.Info().Str("to", to).Uint("movement_id", movement.ID).Msg("Notification email sent")
	return nil
}

func renderBody(movement *models.Movement, toolName, requesterName string) string {
	return fmt.Sprintf(`
		<h3>Notificação de Movimentação de Ferramenta</h3>
		<p><strong>Tipo:</strong> %s</p>
		<p><strong>Ferramenta:</strong> %s</p>
		<p><strong>Solicitante:</strong> %s</p>
		<p><strong>Data de Saída:</strong> %s</p>
		<p><strong>Data de Retorno:</strong> %s</p>
		<p><strong>Observações:</strong> %s</p>`,
		movement.Type,
		orNA(&toolName),
		orNA(&requesterName),
		orNA(movement.CheckoutDate),
		orNA(movement.ExpectedReturnDate),
		orDefault(movement.Notes, "Nenhuma"),
	)
}

func orNA(s *string) string {
	return orDefault(s, "N/A")
}

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
