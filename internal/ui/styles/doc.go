// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the chatbox TUI.

All colors use Lip Gloss AdaptiveColor so one palette serves light and dark
terminals.

# Color System (colors.go)

  - Purple - Headings and AI replies
  - Cyan - Brand, links, focused fields
  - Emerald - Success popup
  - Rose - Error banners and inline field errors
  - Amber - Blocking notices

# Theme System (theme.go)

The Theme struct carries every lipgloss style the screens use. The mode comes
from configuration:

	theme := styles.NewTheme(cfg.UI.Theme)
	renderer, _ := glamour.NewTermRenderer(glamour.WithStandardStyle(theme.GlamourStyle()))
*/
package styles
