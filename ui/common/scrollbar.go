// Package common holds small rendering helpers shared by the list, feed and
// status components.
package common

import (
	"strings"

	"github.com/miosa/osa-vlist/style"
)

const (
	scrollTrackChar = "│"
	scrollThumbChar = "█"
)

// ScrollbarModel tracks the dimensions needed to render a vertical scrollbar.
// Content height may be an estimate; the thumb moves as it is corrected.
type ScrollbarModel struct {
	viewportHeight int
	contentHeight  int
	offset         int
}

// NewScrollbar creates a ScrollbarModel with the given dimensions.
func NewScrollbar(viewportHeight, contentHeight, offset int) ScrollbarModel {
	return ScrollbarModel{
		viewportHeight: viewportHeight,
		contentHeight:  contentHeight,
		offset:         offset,
	}
}

// Thumb returns the first row and the row count of the thumb. Content that
// fits the viewport has no thumb.
func (s ScrollbarModel) Thumb() (top, height int) {
	vh, ch := s.viewportHeight, s.contentHeight
	if vh <= 0 || ch <= vh {
		return 0, 0
	}
	height = min(max(vh*vh/ch, 1), vh)
	top = s.offset * (vh - height) / (ch - vh)
	return min(max(top, 0), vh-height), height
}

// View renders the scrollbar as a single column of viewportHeight rows. When
// the content fits the column is blank, so the layout width never changes.
func (s ScrollbarModel) View() string {
	if s.viewportHeight <= 0 {
		return ""
	}
	top, height := s.Thumb()
	rows := make([]string, s.viewportHeight)
	for i := range rows {
		switch {
		case height == 0:
			rows[i] = " "
		case i >= top && i < top+height:
			rows[i] = style.ScrollbarThumb.Render(scrollThumbChar)
		default:
			rows[i] = style.ScrollbarTrack.Render(scrollTrackChar)
		}
	}
	return strings.Join(rows, "\n")
}

// Scrollbar builds a one-shot scrollbar column.
func Scrollbar(viewportHeight, contentHeight, offset int) string {
	return NewScrollbar(viewportHeight, contentHeight, offset).View()
}
