package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSConfig configures the NATS connection.
type NATSConfig struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig returns the local-server defaults.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: "cubedraft",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// Connect dials NATS with reconnect logging.
func Connect(cfg NATSConfig) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("cubedraft"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	log.Info().Str("url", nc.ConnectedUrl()).Msg("connected to NATS")
	return nc, nil
}

// Publisher is the part of *nats.Conn the observer needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Envelope wraps every event published to NATS.
type Envelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NATSObserver publishes events as JSON envelopes on
// "<prefix>.<type>", with ':' in the type replaced by '.'.
type NATSObserver struct {
	name   string
	pub    Publisher
	prefix string
}

// NewNATSObserver creates a new observer that publishes to NATS.
func NewNATSObserver(pub Publisher, subjectPrefix string) *NATSObserver {
	return &NATSObserver{
		name:   "NATSObserver",
		pub:    pub,
		prefix: subjectPrefix,
	}
}

// Subject returns the subject an event type is published on.
func (o *NATSObserver) Subject(eventType string) string {
	subject := strings.ReplaceAll(eventType, ":", ".")
	if o.prefix == "" {
		return subject
	}
	return o.prefix + "." + subject
}

// OnEvent publishes the event.
func (o *NATSObserver) OnEvent(event Event) error {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	data, err := json.Marshal(Envelope{
		EventID:   uuid.NewString(),
		EventType: event.Type,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := o.Subject(event.Type)
	if err := o.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	log.Debug().Str("subject", subject).Msg("published event")
	return nil
}

// GetName returns the observer's name.
func (o *NATSObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for every event.
func (o *NATSObserver) ShouldHandle(string) bool {
	return true
}

var _ Observer = (*NATSObserver)(nil)
