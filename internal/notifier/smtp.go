package notifier

import (
	"context"
	"fmt"

	"cotecsa-backend/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type smtpNotifier struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

// NewSMTPNotifier sends codes through the configured SMTP relay. When no
// host is configured it falls back to a log-only notifier for development.
func NewSMTPNotifier(config utils.EmailConfig, log *zap.Logger) Notifier {
	if config.Host == "" {
		log.Warn("SMTP host not configured, verification codes will only be logged")
		return NewLogNotifier(log)
	}

	from := config.From
	if from == "" {
		from = config.User
	}

	return &smtpNotifier{
		dialer: gomail.NewDialer(config.Host, config.Port, config.User, config.Password),
		from:   from,
		log:    log,
	}
}

func (n *smtpNotifier) SendCode(ctx context.Context, email, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Código de verificación COTECSA")
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>Bienvenido a COTECSA</h2>
		<p>Tu código de verificación es:</p>
		<h1>%s</h1>
		<p>Ingresa este código en la plataforma.</p>
	`, code))

	// gomail has no context support; honor cancellation around the dial
	done := make(chan error, 1)
	go func() {
		done <- n.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send verification email to %s: %w", email, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send verification email to %s: %w", email, ctx.Err())
	}
}

type logNotifier struct {
	log *zap.Logger
}

// NewLogNotifier logs the code instead of sending it. Used in development
// and in tests.
func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) SendCode(_ context.Context, email, code string) error {
	n.log.Info("Verification code generated",
		zap.String("email", email),
		zap.String("code", code),
	)
	return nil
}
