// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/ui/styles"
	"github.com/jeranaias/chatbox-tui/internal/util"
)

// Layout constants. The view stacks header, optional banner, messages,
// input, and help.
const (
	headerHeight   = 1
	inputHeight    = 3
	helpHeight     = 1
	menuGlyph      = " ≡ "
	menuGlyphWidth = 3
	sendWidth      = 10
)

// =============================================================================
// LAYOUT
// =============================================================================

// mainWidth is the width left for the conversation beside the panel.
func (m Model) mainWidth() int {
	w := m.width
	if m.panel.IsOpen() {
		w -= styles.PanelWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// contentWidth is the wrap width for message bodies.
func (m Model) contentWidth() int {
	w := m.mainWidth() - 8
	if m.opts.WordWrap > 0 && w > m.opts.WordWrap {
		w = m.opts.WordWrap
	}
	if w < 20 {
		w = 20
	}
	return w
}

// layout sizes the viewport and input for the current window and panel.
func (m *Model) layout() {
	m.laidOutPanel = m.panel.IsOpen()
	m.laidOutBanner = m.banner.Visible()
	if m.width == 0 || m.height == 0 {
		return
	}

	height := m.height - headerHeight - inputHeight - helpHeight
	if m.banner.Visible() {
		height--
	}
	if height < 3 {
		height = 3
	}

	m.viewport.Width = m.mainWidth()
	m.viewport.Height = height
	m.input.Width = m.mainWidth() - sendWidth - 6
	m.markdown.SetWidth(m.contentWidth())
	m.refresh()
}

// refresh re-renders the message list into the viewport.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// =============================================================================
// MESSAGES
// =============================================================================

func (m *Model) renderMessages() string {
	if len(m.messages) == 0 {
		return m.theme.Help.Render("Send a message to start the conversation.")
	}
	width := m.contentWidth()
	blocks := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderMessage(msg model.Message, width int) string {
	body := m.renderBody(msg, width)
	label := m.theme.RoleLabel.Render(msg.UserRole.DisplayName())
	if msg.IsSender() {
		bubble := m.theme.UserBubble.MaxWidth(width + 8).Render(body)
		return lipgloss.JoinVertical(lipgloss.Right, label, bubble)
	}
	bubble := m.theme.AssistantBubble.MaxWidth(width + 8).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// renderBody renders markdown once per message and width.
func (m *Model) renderBody(msg model.Message, width int) string {
	cacheKey := msg.Key + "|" + strconv.Itoa(width)
	if msg.Key != "" {
		if out, ok := m.rendered[cacheKey]; ok {
			return out
		}
	}
	out := m.markdown.Render(msg.Message)
	if msg.Key != "" {
		m.rendered[cacheKey] = out
	}
	return out
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	sections := []string{m.renderHeader()}
	if m.banner.Visible() {
		sections = append(sections, m.banner.View(m.theme, m.mainWidth()))
	}
	sections = append(sections,
		m.viewport.View(),
		m.renderInput(),
		m.renderHelp(),
	)
	main := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.panel.IsOpen() {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.panel.View(m.theme, m.height), main)
	}
	return main
}

func (m Model) renderHeader() string {
	heading := util.TruncateWidth(m.heading, m.mainWidth()-menuGlyphWidth-2)
	return m.theme.Brand.Render(menuGlyph) + m.theme.Heading.Render(heading)
}

func (m Model) renderInput() string {
	box := m.theme.Input
	send := m.theme.Send.Render("Send")
	if m.sending {
		box = m.theme.InputDisabled
		send = m.theme.SendDisabled.Render(m.spinner.View() + "Send")
	}
	field := box.Width(m.mainWidth() - sendWidth - 2).Render(m.input.View())
	return lipgloss.JoinHorizontal(lipgloss.Center, field, " ", send)
}

func (m Model) renderHelp() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	parts = append(parts, "C-c quit")
	return m.theme.Help.Render(util.TruncateWidth(strings.Join(parts, " • "), m.mainWidth()))
}
