// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatbox-tui/internal/ui/styles"
)

// =============================================================================
// FLASH TYPES
// =============================================================================

// FlashKind selects how a flash is styled.
type FlashKind int

const (
	// FlashError is a red banner
	FlashError FlashKind = iota
	// FlashSuccess is the centered success popup
	FlashSuccess
	// FlashField is an inline message under a form field
	FlashField
)

// DefaultBannerDuration is how long error banners and field messages stay up.
const DefaultBannerDuration = 4 * time.Second

// DefaultPopupDuration is how long the success popup stays up.
const DefaultPopupDuration = 2 * time.Second

// FlashExpiredMsg is delivered when a flash's timer fires. Seq identifies
// which Show call armed the timer.
type FlashExpiredMsg struct {
	ID  int
	Seq int
}

// =============================================================================
// FLASH
// =============================================================================

// Flash is a message that hides itself after a fixed duration. Every Show
// supersedes the previous text and re-arms the timer; a tick left over from
// an earlier Show, or addressed to a flash that has since been replaced,
// is ignored.
type Flash struct {
	id       int
	seq      int
	text     string
	kind     FlashKind
	duration time.Duration
}

// NewFlash creates a hidden flash. Each flash gets a process-unique ID so
// a recreated view never honors its predecessor's timers.
func NewFlash(kind FlashKind, d time.Duration) Flash {
	if d <= 0 {
		d = DefaultBannerDuration
	}
	return Flash{id: generateFlashID(), kind: kind, duration: d}
}

// ID returns the flash's identifier.
func (f Flash) ID() int { return f.id }

// Show displays text and returns the command that will hide it.
func (f *Flash) Show(text string) tea.Cmd {
	f.seq++
	f.text = text
	id, seq := f.id, f.seq
	return tea.Tick(f.duration, func(time.Time) tea.Msg {
		return FlashExpiredMsg{ID: id, Seq: seq}
	})
}

// Hide clears the text now. Any pending timer becomes stale.
func (f *Flash) Hide() {
	f.seq++
	f.text = ""
}

// Expire handles a timer message. It reports whether msg belonged to this
// flash's current Show, in which case the flash is now hidden.
func (f *Flash) Expire(msg FlashExpiredMsg) bool {
	if msg.ID != f.id || msg.Seq != f.seq {
		return false
	}
	f.text = ""
	return true
}

// Visible reports whether the flash has text.
func (f Flash) Visible() bool { return f.text != "" }

// Text returns the current text, or "".
func (f Flash) Text() string { return f.text }

// View renders the flash for the given width, or "" when hidden.
func (f Flash) View(theme *styles.Theme, width int) string {
	if f.text == "" {
		return ""
	}
	switch f.kind {
	case FlashSuccess:
		return theme.Popup.Render(f.text)
	case FlashField:
		return theme.FieldError.Render(f.text)
	default:
		style := theme.ErrorBanner
		if width > 0 {
			style = style.Width(width)
		}
		return style.Render(styles.StatusIndicators.Error + " " + f.text)
	}
}

// Global flash ID counter
var flashIDMutex sync.Mutex
var flashIDCounter int

// generateFlashID generates a unique flash ID.
func generateFlashID() int {
	flashIDMutex.Lock()
	defer flashIDMutex.Unlock()
	flashIDCounter++
	return flashIDCounter
}

// =============================================================================
// NOTICE
// =============================================================================

// Notice is a blocking message that stays until the user acknowledges it.
type Notice struct {
	text string
}

// Show displays text.
func (n *Notice) Show(text string) { n.text = text }

// Dismiss hides the notice.
func (n *Notice) Dismiss() { n.text = "" }

// Visible reports whether the notice is up.
func (n Notice) Visible() bool { return n.text != "" }

// Text returns the notice text.
func (n Notice) Text() string { return n.text }

// Acknowledges reports whether msg dismisses a visible notice.
func (n Notice) Acknowledges(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "enter", "esc", " ":
		return true
	}
	return false
}

// View centers the notice in the given area.
func (n Notice) View(theme *styles.Theme, width, height int) string {
	if n.text == "" {
		return ""
	}
	box := theme.Notice.Render(
		styles.StatusIndicators.Warning + " " + n.text + "\n\n" + theme.Help.Render("press enter to continue"),
	)
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
