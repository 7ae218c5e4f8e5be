// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/session"
	"github.com/jeranaias/chatbox-tui/internal/ui/components"
	"github.com/jeranaias/chatbox-tui/internal/ui/styles"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// Headings and placeholders.
const (
	NewChatHeading     = "New Chat!"
	PromptPlaceholder  = "Ask me anything..."
	SendingPlaceholder = "Processing..."
)

// Transient error texts.
const (
	ErrPromptFailed = "An error occurred while processing your request."
	ErrRecentFailed = "An error occurred while fetching recent chats."
)

// Panel dismissal modes.
const (
	DismissPress   = "press"
	DismissRelease = "release"
)

// Options configures the chat view.
type Options struct {
	BannerDuration time.Duration
	// WordWrap caps the message width; zero uses the full window.
	WordWrap int
	// PanelDismiss selects whether a button press or release outside the
	// panel closes it.
	PanelDismiss string
}

// =============================================================================
// MODEL
// =============================================================================

// Model is one mounted chat view.
type Model struct {
	theme  *styles.Theme
	client Client
	store  *session.Store
	keys   KeyMap
	opts   Options

	// room is the server-assigned chat room; nil for a new chat.
	room *model.RoomID
	// epoch advances whenever the conversation is replaced so replies to
	// the previous one can be recognized.
	epoch int

	messages []model.Message
	heading  string

	firstAIResponseReceived bool
	sending                 bool
	promptSent              bool
	loadingRecent           bool
	showRecentButton        bool

	panel  components.Panel
	banner components.Flash

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	markdown *components.Markdown

	// rendered caches markdown output by message key.
	rendered map[string]string

	width  int
	height int
	// laidOutPanel and laidOutBanner record what the last layout allowed for.
	laidOutPanel  bool
	laidOutBanner bool
}

// New creates a chat view. room may be nil for a new chat.
func New(theme *styles.Theme, client Client, store *session.Store, room *model.RoomID, opts Options) Model {
	if opts.PanelDismiss != DismissRelease {
		opts.PanelDismiss = DismissPress
	}

	input := textinput.New()
	input.Placeholder = PromptPlaceholder
	input.Prompt = "> "
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		theme:            theme,
		client:           client,
		store:            store,
		keys:             DefaultKeyMap(),
		opts:             opts,
		heading:          NewChatHeading,
		showRecentButton: true,
		panel:            components.NewPanel(),
		banner:           components.NewFlash(components.FlashError, opts.BannerDuration),
		input:            input,
		viewport:         viewport.New(80, 20),
		spinner:          sp,
		markdown:         components.NewMarkdown(theme.GlamourStyle(), 80),
		rendered:         make(map[string]string),
	}
	if room != nil && !room.IsZero() {
		r := *room
		m.room = &r
	}
	if sess, ok := store.Get(); ok {
		m.panel.SetUser(sess)
	}
	m.syncPanel()
	return m
}

// Init starts the cursor and loads history when a room is given.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.room != nil {
		cmds = append(cmds, fetchHistoryCmd(m.client, m.epoch, *m.room))
	}
	return tea.Batch(cmds...)
}

// SetRoom moves the mounted view to another room, as when a recent chat is
// picked. History is loaded for a room the view has not seen yet; adopting
// the room a reply just created keeps the current messages.
func (m Model) SetRoom(room *model.RoomID) (Model, tea.Cmd) {
	if room != nil && room.IsZero() {
		room = nil
	}
	if sameRoom(m.room, room) {
		return m, nil
	}
	if room == nil {
		m.room = nil
		return m, nil
	}
	r := *room
	m.room = &r
	m.epoch++
	return m, fetchHistoryCmd(m.client, m.epoch, r)
}

// SetUser updates the profile shown in the side panel.
func (m *Model) SetUser(sess model.Session) {
	m.panel.SetUser(sess)
}

// Close tears the view down. Its banner timer is abandoned with it.
func (m *Model) Close() {
	m.panel.Close()
	m.banner.Hide()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Heading returns the navbar heading.
func (m Model) Heading() string { return m.heading }

// Messages returns the displayed messages.
func (m Model) Messages() []model.Message { return m.messages }

// Room returns the current room, or nil for a new chat.
func (m Model) Room() *model.RoomID { return m.room }

// Sending reports whether a prompt is awaiting its reply.
func (m Model) Sending() bool { return m.sending }

// PromptSent reports whether a prompt has been sent in this chat.
func (m Model) PromptSent() bool { return m.promptSent }

// FirstResponseReceived reports whether the heading has been set from a reply.
func (m Model) FirstResponseReceived() bool { return m.firstAIResponseReceived }

// Banner returns the transient error text, or "".
func (m Model) Banner() string { return m.banner.Text() }

// Panel returns the side panel.
func (m Model) Panel() components.Panel { return m.panel }

// RecentChats returns the panel's recent chat list.
func (m Model) RecentChats() []model.Chat { return m.panel.Chats() }

// Placeholder returns the input placeholder.
func (m Model) Placeholder() string { return m.input.Placeholder }

// =============================================================================
// HELPERS
// =============================================================================

// syncPanel mirrors the fetch affordance flags into the panel.
func (m *Model) syncPanel() {
	m.panel.ShowFetch = m.showRecentButton && !m.promptSent
	m.panel.SetLoading(m.loadingRecent)
}

func sameRoom(a, b *model.RoomID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}
