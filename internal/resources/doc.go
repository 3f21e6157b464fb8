// Package resources provides MCP resources for exposing server and API data.
// Resources are read-only data sources that MCP clients can fetch, such as
// the upstream endpoint catalogue and server runtime information.
package resources
