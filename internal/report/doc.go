// Package report provides output formatting for fit results.
// It supports human-readable text output for terminal display,
// JSON output for tool integration, and GitHub-flavored Markdown
// for documentation and sharing.
package report
