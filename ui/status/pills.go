package status

import (
	"fmt"

	"github.com/miosa/osa-vlist/style"
)

// PinPill shows whether the list follows the newest entry.
func PinPill(pinned bool) string {
	if pinned {
		return style.StatusPinned.Render("● following")
	}
	return style.StatusFree.Render("○ scrolled")
}

// UnseenPill renders the new-entries badge, e.g. "↓ 3 new". Returns an empty
// string when count is zero.
func UnseenPill(count int) string {
	if count <= 0 {
		return ""
	}
	return style.UnseenBadge.Render(fmt.Sprintf("↓ %s new", formatCount(count)))
}

// StreamPill marks a running feed. glyph is the current pulse frame; an
// empty glyph falls back to a static dot.
func StreamPill(streaming bool, glyph string) string {
	if !streaming {
		return ""
	}
	if glyph == "" {
		glyph = "◉"
	}
	return glyph + style.StatusStreaming.Render(" live")
}
