// Package nostr publishes text notes to the Nostr network.
//
// This package offers note publication functionality including:
//   - Signing Kind 1 text notes with a fresh, single-use keypair per call
//   - Publishing signed events to a configurable set of relays
//   - Bech32 (NIP-19) encoding of the resulting public key and note ID
//
// Every call to Publish generates a brand-new keypair, signs exactly one
// event with it, and discards it. No private key is read from the
// environment, written to disk, or reused across calls, so published notes
// are not linkable to each other or to any long-lived identity.
//
// Publication is attempted on every configured relay and succeeds when at
// least one relay accepts the event. Relays that reject the event or cannot
// be reached are logged and skipped; the remaining relays are still tried.
//
// Example usage:
//
//	pub, err := nostr.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := pub.Publish(ctx, "hello from a throwaway identity")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("published %s as %s to %d relays\n",
//	    result.NoteID, result.Npub, result.RelayCount())
package nostr
