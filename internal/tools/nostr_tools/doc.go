// Package nostr_tools provides MCP tools for publishing Nostr notes.
//
// This package exposes Nostr publishing through the Model Context Protocol
// (MCP), allowing AI agents to post short text notes to public relays. It
// wraps the nostr publisher package and provides the following tool:
//
//   - PublishNote: Publish a Kind 1 Nostr note
//
// Every published note is signed with a fresh single-use keypair, so
// consecutive notes are not linkable to each other. The tool is experimental
// and registered only when the serve command enables it.
//
// Example MCP tool call:
//
//	{
//	  "tool": "PublishNote",
//	  "arguments": {
//	    "note": "Hello from the spending server!"
//	  }
//	}
package nostr_tools
