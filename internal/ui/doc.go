// Package ui holds the terminal-facing pieces of mmopack: overwrite
// approvals, interaction mode detection and lipgloss styles for summaries.
package ui
