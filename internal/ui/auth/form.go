// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authflow "github.com/jeranaias/chatbox-tui/internal/auth"
	"github.com/jeranaias/chatbox-tui/internal/model"
	"github.com/jeranaias/chatbox-tui/internal/ui/styles"
)

// IdentityFailedMessage is shown when provider sign-in does not complete.
const IdentityFailedMessage = "Google sign-in failed. Please try again."

// inputWidth is the visible width of every text field.
const inputWidth = 36

// Options configures both forms.
type Options struct {
	BannerDuration time.Duration
	PopupDuration  time.Duration
	// SignIn runs identity-provider sign-in. Nil hides the option.
	SignIn func(ctx context.Context) (model.Session, error)
}

// identityResultMsg reports the outcome of provider sign-in.
type identityResultMsg struct {
	sess model.Session
	err  error
}

// identityCmd runs provider sign-in and adopts the resulting session.
func identityCmd(signIn func(context.Context) (model.Session, error), flows *authflow.Flows) tea.Cmd {
	return func() tea.Msg {
		sess, err := signIn(context.Background())
		if err == nil {
			err = flows.Adopt(sess)
		}
		return identityResultMsg{sess: sess, err: err}
	}
}

func newInput(placeholder string, password bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Width = inputWidth
	if password {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

// togglePassword flips a password field between hidden and visible.
func togglePassword(ti *textinput.Model) {
	if ti.EchoMode == textinput.EchoPassword {
		ti.EchoMode = textinput.EchoNormal
	} else {
		ti.EchoMode = textinput.EchoPassword
	}
}

// focusOnly focuses inputs[i] and blurs the rest. i may point past the
// inputs to a button, in which case every input is blurred.
func focusOnly(inputs []*textinput.Model, i int) tea.Cmd {
	var cmd tea.Cmd
	for j, in := range inputs {
		if j == i {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

// cycle moves focus by delta within n controls.
func cycle(focus, delta, n int) int {
	focus = (focus + delta) % n
	if focus < 0 {
		focus += n
	}
	return focus
}

// navKey maps a key to a focus delta, or 0.
func navKey(keys KeyMap, msg tea.KeyMsg) int {
	switch {
	case key.Matches(msg, keys.Next):
		return 1
	case key.Matches(msg, keys.Prev):
		return -1
	}
	return 0
}

// field renders a labeled input with its optional inline message.
func field(theme *styles.Theme, label string, in textinput.Model, focused bool, message string) string {
	labelStyle := theme.FieldLabel
	boxStyle := theme.InputDisabled
	if focused {
		labelStyle = theme.FieldFocus
		boxStyle = theme.Input
	}
	parts := []string{labelStyle.Render(label), boxStyle.Width(inputWidth + 2).Render(in.View())}
	if message != "" {
		parts = append(parts, message)
	}
	return strings.Join(parts, "\n")
}

// button renders an action row.
func button(theme *styles.Theme, label string, focused, disabled bool) string {
	switch {
	case disabled:
		return theme.SendDisabled.Render(label)
	case focused:
		return theme.Send.Render(label)
	default:
		return theme.Send.Reverse(true).Render(label)
	}
}

// link renders a navigation row.
func link(theme *styles.Theme, label string, focused bool) string {
	if focused {
		return theme.LinkFocused.Render(label)
	}
	return theme.Link.Render(label)
}

// frame centers a form with its banner above and help below.
func frame(theme *styles.Theme, width, height int, banner, body, help string) string {
	content := theme.Form.Render(body)
	blocks := []string{}
	if banner != "" {
		blocks = append(blocks, banner, "")
	}
	blocks = append(blocks, content, theme.Help.Render(help))
	view := lipgloss.JoinVertical(lipgloss.Center, blocks...)
	if width <= 0 || height <= 0 {
		return view
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, view)
}
