package main

import "github.com/flothjl/usaspending-mcp/cmd"

// Overridden at release builds via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
