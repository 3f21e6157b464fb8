// Package common provides shared utilities for MCP tool implementations.
// It contains the instrumentation wrappers and argument helpers used across
// all tool packages to avoid code duplication and ensure consistent behavior.
package common
