// Package ui provides styled terminal output helpers for the CLI.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

// RenderPass renders a success marker.
func RenderPass(s string) string { return passStyle.Render(s) }

// RenderFail renders a failure marker.
func RenderFail(s string) string { return failStyle.Render(s) }

// RenderAccent renders accented text.
func RenderAccent(s string) string { return accentStyle.Render(s) }

// RenderDim renders secondary text.
func RenderDim(s string) string { return dimStyle.Render(s) }

// RenderTitle renders a note title.
func RenderTitle(s string) string { return titleStyle.Render(s) }
