// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/ui/styles"
)

func room(id int64) *model.RoomID {
	r := model.NumericRoomID(id)
	return &r
}

func openPanel(chats []model.Chat) Panel {
	p := NewPanel()
	p.SetUser(model.Session{Email: "a@b.com", FullName: "Ameer Khan"})
	p.SetChats(chats)
	p.Open()
	return p
}

// rowOf returns the screen row (including top padding) for text.
func rowOf(t *testing.T, p Panel, text string) int {
	t.Helper()
	for i, line := range p.lines() {
		if line.text == text {
			return i + 1
		}
	}
	t.Fatalf("row %q not found", text)
	return -1
}

func TestPanel_ViewShowsProfile(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	p := openPanel(nil)

	view := p.View(theme, 30)
	for _, want := range []string{"[AK]", "Ameer Khan", "a@b.com", LabelNewChat, LabelLogout} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, LabelFetchRecent) {
		t.Error("fetch button should be hidden unless ShowFetch")
	}
}

func TestPanel_MissingProfileShowsNA(t *testing.T) {
	p := NewPanel()
	p.Open()
	lines := p.lines()
	if lines[1].text != LabelNotAvail || lines[2].text != LabelNotAvail {
		t.Errorf("name/email = %q/%q, want N/A", lines[1].text, lines[2].text)
	}
}

func TestPanel_FetchLabelWhileLoading(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	p := openPanel(nil)
	p.ShowFetch = true

	if !strings.Contains(p.View(theme, 30), LabelFetchRecent) {
		t.Error("fetch button should be shown")
	}
	p.SetLoading(true)
	if !strings.Contains(p.View(theme, 30), LabelLoading) {
		t.Error("label should read Loading... while loading")
	}
	if cmd := p.Click(rowOf(t, p, LabelLoading)); cmd != nil {
		t.Error("fetch should not re-enter while loading")
	}
}

func TestPanel_ClickActions(t *testing.T) {
	p := openPanel([]model.Chat{{ID: room(7), Title: "Seven"}})
	p.ShowFetch = true

	tests := []struct {
		row  string
		want tea.Msg
	}{
		{LabelNewChat, PanelNewChatMsg{}},
		{LabelLogout, PanelLogoutMsg{}},
		{LabelFetchRecent, PanelFetchRecentMsg{}},
		{"Seven", PanelOpenChatMsg{Room: model.NumericRoomID(7)}},
	}
	for _, tt := range tests {
		cmd := p.Click(rowOf(t, p, tt.row))
		if cmd == nil {
			t.Errorf("%s: expected a command", tt.row)
			continue
		}
		if got := cmd(); got != tt.want {
			t.Errorf("%s: got %#v, want %#v", tt.row, got, tt.want)
		}
	}
}

func TestPanel_PlaceholderNotNavigable(t *testing.T) {
	p := openPanel(append(model.NoRecentChats(), model.Chat{Title: "No id"}))

	if cmd := p.Click(rowOf(t, p, model.NoRecentChatsTitle)); cmd != nil {
		t.Error("sentinel entry should not navigate")
	}
	if cmd := p.Click(rowOf(t, p, "No id")); cmd != nil {
		t.Error("id-less entry should not navigate")
	}
	if cmd := p.Click(0); cmd != nil {
		t.Error("padding row should do nothing")
	}
}

func TestPanel_KeyboardNavigation(t *testing.T) {
	p := openPanel([]model.Chat{{ID: room(1), Title: "One"}, {ID: room(2), Title: "Two"}})

	// Cursor starts on the first chat.
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || cmd() != (PanelOpenChatMsg{Room: model.NumericRoomID(1)}) {
		t.Fatal("enter on first row should open chat 1")
	}

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || cmd() != (PanelOpenChatMsg{Room: model.NumericRoomID(2)}) {
		t.Fatal("down then enter should open chat 2")
	}

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || cmd() != (PanelNewChatMsg{}) {
		t.Fatal("next action after chats should be New Chat")
	}

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.IsOpen() {
		t.Error("esc should close the panel")
	}
}

func TestPanel_Contains(t *testing.T) {
	p := NewPanel()
	if p.Contains(1, 1) {
		t.Error("closed panel contains nothing")
	}
	p.Open()
	if !p.Contains(styles.PanelWidth-1, 3) {
		t.Error("last column should be inside")
	}
	if p.Contains(styles.PanelWidth, 3) {
		t.Error("column past the border should be outside")
	}
}
