// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/ui/styles"
	"github.com/jeranaias/chatbox-tui/internal/util"
)

// =============================================================================
// PANEL MESSAGES
// =============================================================================

// Labels shown on the panel's actions.
const (
	LabelNewChat     = "New Chat"
	LabelLogout      = "Logout"
	LabelFetchRecent = "Get Recent Chats"
	LabelLoading     = "Loading..."
	LabelNotAvail    = "N/A"
)

// PanelNewChatMsg asks the chat view to start over.
type PanelNewChatMsg struct{}

// PanelLogoutMsg asks for the session to be cleared.
type PanelLogoutMsg struct{}

// PanelFetchRecentMsg asks for the recent chat list.
type PanelFetchRecentMsg struct{}

// PanelOpenChatMsg asks to navigate to a room.
type PanelOpenChatMsg struct {
	Room model.RoomID
}

// =============================================================================
// PANEL
// =============================================================================

type panelItemKind int

const (
	itemNone panelItemKind = iota
	itemChat
	itemFetch
	itemNewChat
	itemLogout
)

// panelLine is one rendered row and the item it activates, if any.
type panelLine struct {
	text  string
	kind  panelItemKind
	index int
}

// Panel is the side menu: profile, recent chats, and account actions.
// The owning view decides when it is open and whether the fetch button
// is offered.
type Panel struct {
	open bool

	user    model.Session
	chats   []model.Chat
	loading bool

	// ShowFetch offers "Get Recent Chats" when true.
	ShowFetch bool

	cursor int
}

// NewPanel creates a closed panel.
func NewPanel() Panel {
	return Panel{}
}

// IsOpen reports whether the panel is showing.
func (p Panel) IsOpen() bool { return p.open }

// Open shows the panel with the cursor on the first actionable row.
func (p *Panel) Open() {
	p.open = true
	p.cursor = 0
	p.clampCursor(1)
}

// Close hides the panel.
func (p *Panel) Close() { p.open = false }

// Toggle flips the panel.
func (p *Panel) Toggle() {
	if p.open {
		p.Close()
	} else {
		p.Open()
	}
}

// SetUser sets the profile shown at the top.
func (p *Panel) SetUser(sess model.Session) { p.user = sess }

// SetChats replaces the recent list.
func (p *Panel) SetChats(chats []model.Chat) {
	p.chats = chats
	p.clampCursor(1)
}

// Chats returns the recent list.
func (p Panel) Chats() []model.Chat { return p.chats }

// SetLoading switches the fetch label to "Loading...".
func (p *Panel) SetLoading(loading bool) { p.loading = loading }

// Loading reports whether a fetch is in flight.
func (p Panel) Loading() bool { return p.loading }

// Contains reports whether screen column x falls on the open panel.
func (p Panel) Contains(x, y int) bool {
	return p.open && x >= 0 && x < styles.PanelWidth && y >= 0
}

// Update handles navigation keys while the panel is open. The returned
// command carries the chosen action, if any.
func (p Panel) Update(msg tea.KeyMsg) (Panel, tea.Cmd) {
	if !p.open {
		return p, nil
	}
	lines := p.lines()
	switch msg.String() {
	case "up", "k":
		p.moveCursor(lines, -1)
	case "down", "j":
		p.moveCursor(lines, 1)
	case "enter":
		return p, p.activate(lines, p.cursor)
	case "esc":
		p.Close()
	}
	return p, nil
}

// Click activates the row at panel-relative row y. Rows that carry no
// action do nothing.
func (p Panel) Click(y int) tea.Cmd {
	if !p.open {
		return nil
	}
	// Row 0 of the content sits below the top padding.
	row := y - 1
	lines := p.lines()
	if row < 0 || row >= len(lines) {
		return nil
	}
	return p.activate(lines, row)
}

func (p Panel) activate(lines []panelLine, row int) tea.Cmd {
	if row < 0 || row >= len(lines) {
		return nil
	}
	line := lines[row]
	switch line.kind {
	case itemChat:
		chat := p.chats[line.index]
		if !chat.Navigable() {
			return nil
		}
		room := *chat.ID
		return func() tea.Msg { return PanelOpenChatMsg{Room: room} }
	case itemFetch:
		if p.loading {
			return nil
		}
		return func() tea.Msg { return PanelFetchRecentMsg{} }
	case itemNewChat:
		return func() tea.Msg { return PanelNewChatMsg{} }
	case itemLogout:
		return func() tea.Msg { return PanelLogoutMsg{} }
	}
	return nil
}

func (p *Panel) moveCursor(lines []panelLine, delta int) {
	for i := p.cursor + delta; i >= 0 && i < len(lines); i += delta {
		if lines[i].kind != itemNone {
			p.cursor = i
			return
		}
	}
}

// clampCursor keeps the cursor on an actionable row, searching in dir.
func (p *Panel) clampCursor(dir int) {
	lines := p.lines()
	if p.cursor >= len(lines) {
		p.cursor = len(lines) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	if len(lines) == 0 || lines[p.cursor].kind != itemNone {
		return
	}
	p.moveCursor(lines, dir)
	if lines[p.cursor].kind == itemNone {
		p.moveCursor(lines, -dir)
	}
}

// lines lays out the panel content. View and hit-testing share it.
func (p Panel) lines() []panelLine {
	inner := styles.PanelWidth - 4

	name := p.user.FullName
	if name == "" {
		name = LabelNotAvail
	}
	email := p.user.Email
	if email == "" {
		email = LabelNotAvail
	}
	initials := util.Initials(p.user.FullName)
	if initials == "" {
		initials = "?"
	}

	out := []panelLine{
		{text: "[" + initials + "]"},
		{text: util.TruncateWidth(name, inner)},
		{text: util.TruncateWidth(email, inner)},
		{},
		{text: "Recent Chats"},
	}
	for i, chat := range p.chats {
		out = append(out, panelLine{
			text:  util.TruncateWidth(chat.Title, inner-2),
			kind:  itemChat,
			index: i,
		})
	}
	out = append(out, panelLine{})
	if p.ShowFetch {
		label := LabelFetchRecent
		if p.loading {
			label = LabelLoading
		}
		out = append(out, panelLine{text: label, kind: itemFetch})
	}
	out = append(out,
		panelLine{text: LabelNewChat, kind: itemNewChat},
		panelLine{text: LabelLogout, kind: itemLogout},
	)
	return out
}

// View renders the panel at the given height, or "" when closed.
func (p Panel) View(theme *styles.Theme, height int) string {
	if !p.open {
		return ""
	}
	lines := p.lines()
	rendered := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		switch {
		case i == 0:
			text = theme.Avatar.Render(text)
		case i == 1:
			text = theme.PanelName.Render(text)
		case i == 2:
			text = theme.Muted.Render(text)
		case line.kind == itemChat:
			style := theme.PanelItem
			if !p.chats[line.index].Navigable() {
				style = theme.Muted
			}
			if i == p.cursor {
				style = theme.PanelSelected
				text = "> " + text
			} else {
				text = "  " + text
			}
			text = style.Render(text)
		case line.kind != itemNone:
			style := theme.PanelAction
			if i == p.cursor {
				style = theme.PanelSelected
			}
			text = style.Render(text)
		case text != "":
			text = theme.FieldLabel.Render(text)
		}
		rendered[i] = text
	}

	style := theme.Panel
	if height > 2 {
		style = style.Height(height - 2)
	}
	return style.Render(strings.Join(rendered, "\n"))
}
