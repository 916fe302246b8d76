package emails

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/rosterx/internal/shared"
)

// Mailer delivers rendered messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer builds the configured delivery chain: a [LogMailer] behind a [RateLimitedMailer].
func NewMailer(cfg shared.EmailConfig, logger *log.Logger) Mailer {
	return NewRateLimitedMailer(NewLogMailer(cfg.From, logger), cfg.RateLimit, cfg.Burst)
}

// LogMailer writes messages to the log instead of an SMTP relay.
type LogMailer struct {
	from   string
	logger *log.Logger
}

func NewLogMailer(from string, logger *log.Logger) *LogMailer {
	return &LogMailer{from: from, logger: shared.WithLogger(logger, "component", "mailer")}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("%w: message has no recipient", shared.ErrInvalidInput)
	}
	if msg.From == "" {
		msg.From = m.from
	}

	m.logger.Info("email sent", "from", msg.From, "to", msg.To, "subject", msg.Subject)
	m.logger.Debug("email body", "text", msg.Text)
	return nil
}

// Outbox keeps sent messages in memory.
type Outbox struct {
	mu       sync.Mutex
	messages []Message
	err      error
}

// FailWith makes subsequent sends return err.
func (o *Outbox) FailWith(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

func (o *Outbox) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.messages = append(o.messages, msg)
	return nil
}

// Messages returns a copy of everything sent so far.
func (o *Outbox) Messages() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Message(nil), o.messages...)
}

// RateLimitedMailer delays sends to at most perSecond messages per second, allowing bursts.
type RateLimitedMailer struct {
	next    Mailer
	limiter *rate.Limiter
}

// NewRateLimitedMailer wraps next. A non-positive perSecond disables throttling.
func NewRateLimitedMailer(next Mailer, perSecond float64, burst int) *RateLimitedMailer {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedMailer{next: next, limiter: rate.NewLimiter(limit, burst)}
}

// Send waits for a token, honoring ctx cancellation, then forwards to the wrapped mailer.
func (m *RateLimitedMailer) Send(ctx context.Context, msg Message) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return m.next.Send(ctx, msg)
}
