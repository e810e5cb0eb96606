// Package ui layout constants for consistent spacing and dimensions
package ui

// Layout constants for the panel
const (
	HeaderHeight = 2
	FooterHeight = 1
	UploadHeight = 2

	// Input box: text lines plus border
	InputLines  = 3
	InputHeight = InputLines + 2

	// Transcript column takes this share of the terminal width, and a single
	// message bubble at most this share of the column.
	ColumnPercent = 70
	BubblePercent = 50

	MinColumnWidth = 20
	MinBubbleWidth = 10
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
	}
}

// ColumnWidth returns the width of the centered chat column.
func (l LayoutConfig) ColumnWidth() int {
	w := l.TerminalWidth * ColumnPercent / 100
	if w < MinColumnWidth {
		w = MinColumnWidth
	}
	return w
}

// BubbleWidth returns the maximum width of one message bubble.
func (l LayoutConfig) BubbleWidth() int {
	w := l.ColumnWidth() * BubblePercent / 100
	if w < MinBubbleWidth {
		w = MinBubbleWidth
	}
	return w
}

// TranscriptHeight returns the rows left for the transcript viewport.
func (l LayoutConfig) TranscriptHeight() int {
	h := l.TerminalHeight - HeaderHeight - InputHeight - UploadHeight - FooterHeight
	if h < 1 {
		h = 1
	}
	return h
}
