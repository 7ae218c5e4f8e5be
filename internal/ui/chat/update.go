// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/router"
	"github.com/jeranaias/chatbox-tui/internal/ui/components"
)

// Update handles all messages for the chat view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	m, cmd := m.update(msg)
	// Opening the panel or raising the banner changes the space left for
	// messages.
	if m.panel.IsOpen() != m.laidOutPanel || m.banner.Visible() != m.laidOutBanner {
		m.layout()
	}
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case components.FlashExpiredMsg:
		m.banner.Expire(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case promptResultMsg:
		return m.handlePromptResult(msg)

	case historyResultMsg:
		return m.handleHistory(msg), nil

	case recentResultMsg:
		return m.handleRecent(msg)

	case components.PanelNewChatMsg:
		return m.newChat()

	case components.PanelLogoutMsg:
		return m.logout()

	case components.PanelFetchRecentMsg:
		return m.fetchRecent()

	case components.PanelOpenChatMsg:
		m.panel.Close()
		room := msg.Room
		return m, components.Navigate(router.Chat(&room))

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// =============================================================================
// KEYBOARD
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.TogglePanel):
		m.panel.Toggle()
		return m, nil
	case key.Matches(msg, m.keys.NewChat):
		return m.newChat()
	}

	if m.panel.IsOpen() {
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Send):
		return m.send()
	}

	// The input is disabled while a reply is pending.
	if m.sending {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// MOUSE
// =============================================================================

// isClick reports whether msg is the configured dismissal event.
func (m Model) isClick(msg tea.MouseMsg) bool {
	if m.opts.PanelDismiss == DismissRelease {
		return msg.Type == tea.MouseRelease
	}
	return msg.Type == tea.MouseLeft
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.MouseWheelUp:
		m.viewport.LineUp(3)
		return m, nil
	case tea.MouseWheelDown:
		m.viewport.LineDown(3)
		return m, nil
	}

	if !m.isClick(msg) {
		return m, nil
	}

	if m.panel.IsOpen() {
		if !m.panel.Contains(msg.X, msg.Y) {
			m.panel.Close()
			return m, nil
		}
		return m, m.panel.Click(msg.Y)
	}

	// The menu glyph occupies the first columns of the header row.
	if msg.Y == 0 && msg.X < menuGlyphWidth {
		m.panel.Open()
	}
	return m, nil
}

// =============================================================================
// PROMPTS
// =============================================================================

// send appends the prompt optimistically and posts it.
func (m Model) send() (Model, tea.Cmd) {
	text := m.input.Value()
	if m.sending || strings.TrimSpace(text) == "" {
		return m, nil
	}

	m.messages = append(m.messages, model.NewSenderMessage(text))
	m.input.Reset()
	m.input.Placeholder = SendingPlaceholder
	m.input.Blur()
	m.sending = true
	m.promptSent = true
	m.syncPanel()
	m.refresh()

	var room *model.RoomID
	if m.room != nil {
		r := *m.room
		room = &r
	}
	return m, tea.Batch(m.spinner.Tick, sendPromptCmd(m.client, m.epoch, room, text))
}

func (m Model) handlePromptResult(msg promptResultMsg) (Model, tea.Cmd) {
	m.sending = false
	m.input.Placeholder = PromptPlaceholder
	focus := m.input.Focus()

	if msg.epoch != m.epoch {
		slog.Debug("dropping reply for a previous conversation")
		return m, focus
	}

	if msg.err != nil {
		slog.Warn("prompt failed", "error", msg.err)
		cmd := tea.Batch(focus, m.banner.Show(ErrPromptFailed))
		return m, cmd
	}

	roomID := msg.result.RoomID
	reply := msg.result.Message
	var cmds []tea.Cmd
	cmds = append(cmds, focus)

	if !m.firstAIResponseReceived {
		m.heading = model.TitleFromReply(reply)
		m.firstAIResponseReceived = true
		id := roomID
		m.panel.SetChats([]model.Chat{{ID: &id, Title: m.heading, Message: reply}})
	}

	m.messages = append(m.messages, model.NewAIMessage(roomID, reply))

	if m.room == nil {
		id := roomID
		m.room = &id
		cmds = append(cmds, components.Navigate(router.Chat(&id)))
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

// =============================================================================
// HISTORY AND RECENT CHATS
// =============================================================================

func (m Model) handleHistory(msg historyResultMsg) Model {
	if msg.err != nil {
		slog.Warn("could not load chat history", "room", msg.room.String(), "error", msg.err)
		return m
	}
	if msg.epoch != m.epoch {
		return m
	}
	m.messages = model.EnsureKeys(msg.messages)
	m.refresh()
	return m
}

func (m Model) fetchRecent() (Model, tea.Cmd) {
	if m.loadingRecent {
		return m, nil
	}
	m.loadingRecent = true
	m.syncPanel()
	return m, fetchRecentCmd(m.client)
}

func (m Model) handleRecent(msg recentResultMsg) (Model, tea.Cmd) {
	m.loadingRecent = false
	m.showRecentButton = false

	var cmd tea.Cmd
	if msg.err != nil {
		slog.Warn("could not fetch recent chats", "error", msg.err)
		m.panel.SetChats(model.NoRecentChats())
		cmd = m.banner.Show(ErrRecentFailed)
	} else {
		m.panel.SetChats(model.NormalizeRecent(msg.chats))
	}
	m.syncPanel()
	return m, cmd
}

// =============================================================================
// PANEL ACTIONS
// =============================================================================

// newChat clears the conversation and returns to the bare chat route.
func (m Model) newChat() (Model, tea.Cmd) {
	m.messages = nil
	m.heading = NewChatHeading
	m.firstAIResponseReceived = false
	m.promptSent = false
	m.room = nil
	m.epoch++
	m.panel.Close()
	m.syncPanel()
	m.refresh()
	return m, components.Navigate(router.Chat(nil))
}

// logout clears the session and goes to the login screen.
func (m Model) logout() (Model, tea.Cmd) {
	m.panel.Close()
	if err := m.store.Clear(); err != nil {
		slog.Error("logout could not clear session", "error", err)
	}
	return m, components.Navigate(router.Login(""))
}
