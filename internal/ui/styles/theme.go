// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chatbox TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// PanelWidth is the width of the side panel including its border.
const PanelWidth = 30

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADINGS
	// ==========================================================================

	Brand   lipgloss.Style
	Heading lipgloss.Style
	Help    lipgloss.Style
	Muted   lipgloss.Style

	// ==========================================================================
	// FORMS
	// ==========================================================================

	Form        lipgloss.Style
	FieldLabel  lipgloss.Style
	FieldFocus  lipgloss.Style
	FieldError  lipgloss.Style
	Link        lipgloss.Style
	LinkFocused lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style

	// ==========================================================================
	// INPUT
	// ==========================================================================

	Input         lipgloss.Style
	InputDisabled lipgloss.Style
	Send          lipgloss.Style
	SendDisabled  lipgloss.Style

	// ==========================================================================
	// OVERLAYS
	// ==========================================================================

	ErrorBanner lipgloss.Style
	Popup       lipgloss.Style
	Notice      lipgloss.Style

	// ==========================================================================
	// SIDE PANEL
	// ==========================================================================

	Panel          lipgloss.Style
	Avatar         lipgloss.Style
	PanelName      lipgloss.Style
	PanelItem      lipgloss.Style
	PanelSelected  lipgloss.Style
	PanelAction    lipgloss.Style
	PanelSeparator lipgloss.Style
}

// NewTheme creates a theme for mode ("auto", "dark" or "light"). Auto
// asks the terminal for its background.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// GlamourStyle names the glamour standard style matching the background.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.Brand = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.Heading = lipgloss.NewStyle().Bold(true).Foreground(Purple).Padding(0, 1)
	t.Help = lipgloss.NewStyle().Foreground(TextMuted)
	t.Muted = lipgloss.NewStyle().Foreground(TextSecondary)

	// Forms
	t.Form = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 3)
	t.FieldLabel = lipgloss.NewStyle().Foreground(TextSecondary)
	t.FieldFocus = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.FieldError = lipgloss.NewStyle().Foreground(Rose).Italic(true)
	// ACCESSIBILITY: Underline provides non-color visual cue for links
	t.Link = lipgloss.NewStyle().Foreground(Cyan).Underline(true)
	t.LinkFocused = t.Link.Bold(true).Reverse(true)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)
	t.AssistantBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1).
		MarginRight(4)
	t.RoleLabel = lipgloss.NewStyle().Foreground(TextMuted).Bold(true)

	// Input
	t.Input = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)
	t.InputDisabled = t.Input.BorderForeground(OverlayDim)
	t.Send = lipgloss.NewStyle().Bold(true).Foreground(TextInverse).Background(Cyan).Padding(0, 1)
	t.SendDisabled = lipgloss.NewStyle().Foreground(TextMuted).Background(Overlay).Padding(0, 1)

	// Overlays
	t.ErrorBanner = lipgloss.NewStyle().
		Foreground(Rose).
		Background(RoseDeep).
		Bold(true).
		Padding(0, 2)
	t.Popup = lipgloss.NewStyle().
		Foreground(Emerald).
		Background(EmeraldDeep).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Emerald).
		Padding(1, 3).
		Align(lipgloss.Center)
	t.Notice = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Amber).
		Padding(1, 3).
		Align(lipgloss.Center)

	// Side panel
	t.Panel = lipgloss.NewStyle().
		Width(PanelWidth-2).
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(1, 1)
	t.Avatar = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 1)
	t.PanelName = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.PanelItem = lipgloss.NewStyle().Foreground(TextPrimary)
	t.PanelSelected = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.PanelAction = lipgloss.NewStyle().Foreground(Purple)
	t.PanelSeparator = lipgloss.NewStyle().Foreground(Overlay)
}
