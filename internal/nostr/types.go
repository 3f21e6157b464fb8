package nostr

import "fmt"

// PublishResult represents the outcome of a successful note publication
type PublishResult struct {
	// Npub is the bech32-encoded public key of the throwaway identity
	// that signed the note (e.g., "npub1...")
	Npub string `json:"npub"`

	// NoteID is the bech32-encoded event identifier of the published
	// note (e.g., "note1...")
	NoteID string `json:"note_id"`

	// EventID is the raw hex event identifier
	EventID string `json:"event_id"`

	// AcceptedRelays lists the relay URLs that accepted the event
	AcceptedRelays []string `json:"accepted_relays"`
}

// RelayCount returns the number of relays that accepted the event
func (r *PublishResult) RelayCount() int {
	return len(r.AcceptedRelays)
}

// NostrError represents an error that occurred during Nostr operations
type NostrError struct {
	// Op is the operation that failed (e.g., "sign", "connect", "publish")
	Op string

	// Relay is the relay URL associated with the operation, if any
	Relay string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *NostrError) Error() string {
	if e.Relay != "" {
		return fmt.Sprintf("nostr %s (relay: %s): %v", e.Op, e.Relay, e.Err)
	}
	return fmt.Sprintf("nostr %s: %v", e.Op, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *NostrError) Unwrap() error {
	return e.Err
}
