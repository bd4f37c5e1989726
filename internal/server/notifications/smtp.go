package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"time"

	"github.com/jordan-wright/email"
)

const (
	// smtpPoolSize bounds the open connections to the mail server.
	smtpPoolSize = 2
	// defaultSendTimeout applies when the caller's context has no deadline.
	defaultSendTimeout = 30 * time.Second
)

// SMTPConfig holds the outbound mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// FromName and FromAddress build the From header: "FromName" <FromAddress>.
	FromName    string
	FromAddress string
}

// SMTPSink sends HTML email over SMTP with PLAIN auth. Connections come from
// a pool that is shared by every Send.
type SMTPSink struct {
	cfg      SMTPConfig
	renderer *Renderer
	addr     string
	auth     smtp.Auth
	send     func(e *email.Email, timeout time.Duration) error
}

func NewSMTPSink(cfg SMTPConfig, renderer *Renderer) (*SMTPSink, error) {
	s := &SMTPSink{
		cfg:      cfg,
		renderer: renderer,
		addr:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
	}
	if cfg.User != "" {
		s.auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}

	pool, err := email.NewPool(s.addr, smtpPoolSize, s.auth)
	if err != nil {
		return nil, fmt.Errorf("smtp pool %s: %w", s.addr, err)
	}
	s.send = pool.Send

	return s, nil
}

func (s *SMTPSink) from() string {
	if s.cfg.FromName == "" {
		return s.cfg.FromAddress
	}
	return fmt.Sprintf("%q <%s>", s.cfg.FromName, s.cfg.FromAddress)
}

// Send delivers n, giving up when ctx is done. The pool bounds the wait for a
// connection; a server that stalls later in the exchange is abandoned when
// ctx expires.
func (s *SMTPSink) Send(ctx context.Context, n Notification) error {
	body, err := s.renderer.Render(n)
	if err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = s.from()
	e.To = []string{n.Recipient}
	e.Subject = n.Subject
	e.HTML = []byte(body)

	timeout := defaultSendTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("smtp send to %s: %w", n.Recipient, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("smtp send to %s: %w", n.Recipient, context.DeadlineExceeded)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		result <- s.send(e, timeout)
	}()

	select {
	case err = <-result:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("smtp send to %s: %w", n.Recipient, err)
	}
	return nil
}
