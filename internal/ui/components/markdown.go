// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders message bodies with glamour. When the renderer cannot be
// built or fails on a body, the plain text is returned instead.
type Markdown struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdown creates a renderer for a glamour standard style ("dark",
// "light", "notty") wrapping at width.
func NewMarkdown(style string, width int) *Markdown {
	md := &Markdown{style: style}
	md.SetWidth(width)
	return md
}

// Width returns the current wrap width.
func (md *Markdown) Width() int { return md.width }

// SetWidth rebuilds the renderer for a new wrap width.
func (md *Markdown) SetWidth(width int) {
	if width == md.width && md.renderer != nil {
		return
	}
	md.width = width
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(md.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		slog.Warn("markdown renderer unavailable", "error", err)
		md.renderer = nil
		return
	}
	md.renderer = r
}

// Render returns text rendered as markdown, trimmed of the blank margin
// glamour adds.
func (md *Markdown) Render(text string) string {
	if md == nil || md.renderer == nil {
		return text
	}
	out, err := md.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
