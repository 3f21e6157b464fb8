package nostr

import (
	"context"
	"fmt"
	"strings"
	"time"

	gonostr "github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"

	"github.com/flothjl/usaspending-mcp/internal/logging"
)

// DefaultTimeout bounds the connect-and-publish exchange with a single relay.
const DefaultTimeout = 15 * time.Second

// DefaultRelays are the relays events are published to when the
// configuration does not name an explicit relay set.
var DefaultRelays = []string{
	"wss://relay.damus.io",
	"wss://nos.lol",
}

// Config holds the settings for a Publisher.
type Config struct {
	// Relays is the set of relay URLs to publish to. Each URL must use the
	// ws:// or wss:// scheme. Defaults to DefaultRelays when empty.
	Relays []string

	// Timeout bounds the connect-and-publish exchange with each relay.
	// Defaults to DefaultTimeout when zero.
	Timeout time.Duration

	// Logger receives per-relay publication outcomes. Defaults to the
	// process-wide slog logger when nil.
	Logger logging.Logger
}

// Publisher publishes text notes to a fixed set of Nostr relays. Each call
// to Publish signs with a freshly generated keypair, so a Publisher holds
// no key material and is safe for concurrent use.
type Publisher struct {
	relays  []string
	timeout time.Duration
	logger  logging.Logger
}

// New creates a Publisher with the default relay set and timeout.
func New() (*Publisher, error) {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a Publisher from the given configuration, applying
// defaults for any zero-valued field.
func NewWithConfig(cfg Config) (*Publisher, error) {
	relays := cfg.Relays
	if len(relays) == 0 {
		relays = DefaultRelays
	}
	for _, url := range relays {
		if !strings.HasPrefix(url, "wss://") && !strings.HasPrefix(url, "ws://") {
			return nil, &NostrError{
				Op:    "initialize",
				Relay: url,
				Err:   fmt.Errorf("relay URL must use the ws:// or wss:// scheme"),
			}
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return &Publisher{
		relays:  append([]string(nil), relays...),
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Relays returns a copy of the configured relay URLs.
func (p *Publisher) Relays() []string {
	return append([]string(nil), p.relays...)
}

// Publish signs note as a Kind 1 text event with a brand-new keypair and
// sends it to every configured relay. The private key never leaves this
// call; it is not stored, logged, or reused. Publication succeeds when at
// least one relay accepts the event.
func (p *Publisher) Publish(ctx context.Context, note string) (*PublishResult, error) {
	if note == "" {
		return nil, &NostrError{Op: "publish", Err: fmt.Errorf("note cannot be empty")}
	}

	publicKey, event, err := newSignedNote(note)
	if err != nil {
		return nil, err
	}

	accepted := make([]string, 0, len(p.relays))
	var lastErr error
	for _, url := range p.relays {
		if err := p.publishTo(ctx, url, event); err != nil {
			lastErr = err
			p.logger.Warn("relay did not accept event",
				logging.KeyRelay, url,
				logging.KeyEventID, event.ID,
				logging.KeyError, err)
			continue
		}
		p.logger.Debug("relay accepted event",
			logging.KeyRelay, url,
			logging.KeyEventID, event.ID)
		accepted = append(accepted, url)
	}
	if len(accepted) == 0 {
		return nil, &NostrError{
			Op:  "publish",
			Err: fmt.Errorf("no relay accepted the event: %w", lastErr),
		}
	}

	npub, err := nip19.EncodePublicKey(publicKey)
	if err != nil {
		return nil, &NostrError{Op: "encode", Err: err}
	}
	noteID, err := nip19.EncodeNote(event.ID)
	if err != nil {
		return nil, &NostrError{Op: "encode", Err: err}
	}

	return &PublishResult{
		Npub:           npub,
		NoteID:         noteID,
		EventID:        event.ID,
		AcceptedRelays: accepted,
	}, nil
}

// newSignedNote builds and signs a Kind 1 text event with a freshly
// generated keypair. The secret key goes out of scope when this function
// returns; only the hex public key and the signed event survive.
func newSignedNote(note string) (string, gonostr.Event, error) {
	secretKey := gonostr.GeneratePrivateKey()
	publicKey, err := gonostr.GetPublicKey(secretKey)
	if err != nil {
		return "", gonostr.Event{}, &NostrError{Op: "keygen", Err: err}
	}

	event := gonostr.Event{
		CreatedAt: gonostr.Now(),
		Kind:      gonostr.KindTextNote,
		Tags:      gonostr.Tags{},
		Content:   note,
	}
	if err := event.Sign(secretKey); err != nil {
		return "", gonostr.Event{}, &NostrError{Op: "sign", Err: err}
	}
	return publicKey, event, nil
}

// publishTo connects to a single relay, submits the event, and closes the
// connection. The publisher's timeout applies to the whole exchange.
func (p *Publisher) publishTo(ctx context.Context, url string, event gonostr.Event) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	relay, err := gonostr.RelayConnect(ctx, url)
	if err != nil {
		return &NostrError{Op: "connect", Relay: url, Err: err}
	}
	defer relay.Close()

	if err := relay.Publish(ctx, event); err != nil {
		return &NostrError{Op: "publish", Relay: url, Err: err}
	}
	return nil
}
