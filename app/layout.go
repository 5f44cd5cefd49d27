package app

import "github.com/miosa/osa-vlist/ui/header"

const (
	// minListHeight keeps the list usable on tiny terminals; the frame is
	// clipped rather than the list collapsing to nothing.
	minListHeight = 3

	statusHeight = 1
)

// Layout holds computed dimensions for the current frame.
type Layout struct {
	TermWidth    int
	TermHeight   int
	HeaderHeight int // header line + separator
	StatusHeight int
	HelpHeight   int
	ToastHeight  int
	ListWidth    int
	ListHeight   int
}

// ComputeLayout calculates the layout from the terminal size and the
// current heights of the help and toast areas. The remainder goes to the list.
func ComputeLayout(termW, termH, helpLines, toastLines int) Layout {
	l := Layout{
		TermWidth:    termW,
		TermHeight:   termH,
		HeaderHeight: header.Height,
		StatusHeight: statusHeight,
		HelpHeight:   max(helpLines, 1),
		ToastHeight:  max(toastLines, 0),
		ListWidth:    max(termW, 0),
	}
	reserved := l.HeaderHeight + l.StatusHeight + l.HelpHeight + l.ToastHeight
	l.ListHeight = max(termH-reserved, minListHeight)
	return l
}
