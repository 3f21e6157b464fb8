package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/flothjl/usaspending-mcp/internal/server"
	"github.com/flothjl/usaspending-mcp/internal/tools/nostr_tools"
	"github.com/flothjl/usaspending-mcp/internal/tools/spending_tools"
	"github.com/flothjl/usaspending-mcp/internal/usaspending"
)

// toolCategories fixes the section order of the generated reference. The
// spending tools are the point of the server, so they come first regardless
// of alphabetical order.
var toolCategories = []string{"Spending Tools", "Nostr Tools", "Other"}

func newGenerateDocsCmd() *cobra.Command {
	var (
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command introspects the registered tools and outputs their documentation
in markdown format, ensuring the documentation is always accurate and in sync
with the actual tool implementations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(outputFile string) error {
	// Registration needs a server context, but no upstream call happens
	// during doc generation.
	ctx := context.Background()
	serverContext, err := server.NewServerContext(ctx,
		server.WithSpendingClient(usaspending.New()),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	mcpSrv := mcpserver.NewMCPServer("usaspending", version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register every tool group, including the Nostr group that serve only
	// registers behind --enable-nostr, so the docs cover every tool.
	if err := spending_tools.RegisterSpendingTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register Spending tools: %w", err)
	}

	if err := nostr_tools.RegisterNostrTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register Nostr tools: %w", err)
	}

	tools := make([]mcp.Tool, 0, len(mcpSrv.ListTools()))
	for _, serverTool := range mcpSrv.ListTools() {
		tools = append(tools, serverTool.Tool)
	}

	markdown := toolsReference(tools)

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	} else {
		fmt.Print(markdown)
	}

	return nil
}

// toolsReference renders the full markdown reference for the given tools,
// grouped into the fixed category order and sorted by name within each
// category so regenerated docs diff cleanly.
func toolsReference(tools []mcp.Tool) string {
	grouped := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		category := toolCategory(tool.Name)
		grouped[category] = append(grouped[category], tool)
	}
	for _, categoryTools := range grouped {
		sort.Slice(categoryTools, func(i, j int) bool {
			return categoryTools[i].Name < categoryTools[j].Name
		})
	}

	var sb strings.Builder
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools available when running usaspending-mcp as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	sb.WriteString("## Table of Contents\n\n")
	for _, category := range toolCategories {
		if len(grouped[category]) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "- [%s](#%s)\n", category, sectionAnchor(category))
	}
	sb.WriteString("\n")

	sb.WriteString("## Data Source\n\n")
	sb.WriteString("All spending tools query the public usaspending.gov API (v2). No credentials are required.\n\n")
	sb.WriteString("- **Agency ids:** Use `GetAgencies` to discover toptier agency ids and codes\n")
	sb.WriteString("- **Award ids:** Award identifiers returned by `GetSpendingAwardsByAgencyId` and `SearchByKeywords` can be passed to `GetAwardInfoByAwardId`\n")
	sb.WriteString("- **Fiscal years:** Spending is reported by U.S. federal fiscal year\n\n")

	for _, category := range toolCategories {
		if len(grouped[category]) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n", category)
		for _, tool := range grouped[category] {
			writeToolSection(&sb, tool)
		}
	}

	return sb.String()
}

func toolCategory(name string) string {
	switch name {
	case "GetSpendingAwardsByAgencyId", "GetAwardInfoByAwardId", "SearchByKeywords", "GetAgencies":
		return "Spending Tools"
	case "PublishNote":
		return "Nostr Tools"
	default:
		return "Other"
	}
}

func sectionAnchor(heading string) string {
	return strings.ToLower(strings.ReplaceAll(heading, " ", "-"))
}

func writeToolSection(sb *strings.Builder, tool mcp.Tool) {
	fmt.Fprintf(sb, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", tool.Description)
	}

	if len(tool.InputSchema.Properties) == 0 {
		sb.WriteString("\n")
		return
	}

	sb.WriteString("**Arguments:**\n")

	propNames := make([]string, 0, len(tool.InputSchema.Properties))
	for name := range tool.InputSchema.Properties {
		propNames = append(propNames, name)
	}
	sort.Strings(propNames)

	for _, name := range propNames {
		propMap, ok := tool.InputSchema.Properties[name].(map[string]any)
		if !ok {
			continue
		}
		requiredStr := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			requiredStr = "required"
		}
		fmt.Fprintf(sb, "- `%s` (%s): %s\n", name, requiredStr, propertyDoc(propMap))
	}
	sb.WriteString("\n\n")
}

// propertyDoc returns the property's description, falling back to its JSON
// schema type when the tool declared none.
func propertyDoc(prop map[string]any) string {
	if desc, ok := prop["description"].(string); ok && desc != "" {
		return desc
	}
	if t, ok := prop["type"].(string); ok {
		return t + " parameter"
	}
	return "any parameter"
}
