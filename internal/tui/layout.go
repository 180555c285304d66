package tui

import "strings"

const (
	horizontalPadding = 2
	minContentWidth   = 40
	maxProgressWidth  = 60
	// header, selection, action row, progress, notices, section titles,
	// status bar and the blank lines between them
	chromeHeight     = 15
	minPickerHeight  = 4
	minResultsHeight = 6
)

type pageLayout struct {
	windowWidth   int
	windowHeight  int
	contentWidth  int
	usableHeight  int
	pickerHeight  int
	resultsHeight int
}

func newPageLayout() pageLayout {
	l := pageLayout{}
	l.Update(100, 40)
	return l
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	l.contentWidth = width - horizontalPadding
	if l.contentWidth < minContentWidth {
		l.contentWidth = minContentWidth
	}
	l.usableHeight = height - chromeHeight
	if l.usableHeight < minPickerHeight+minResultsHeight {
		l.usableHeight = minPickerHeight + minResultsHeight
	}
	l.pickerHeight = l.usableHeight / 3
	if l.pickerHeight < minPickerHeight {
		l.pickerHeight = minPickerHeight
	}
	l.resultsHeight = l.usableHeight - l.pickerHeight
	if l.resultsHeight < minResultsHeight {
		l.resultsHeight = minResultsHeight
	}
}

// pickerRows is the picker height. Without results on screen the picker
// takes the whole body.
func (l pageLayout) pickerRows(withResults bool) int {
	if withResults {
		return l.pickerHeight
	}
	return l.usableHeight
}

func (l pageLayout) progressWidth() int {
	if l.contentWidth > maxProgressWidth {
		return maxProgressWidth
	}
	return l.contentWidth
}

func joinNonEmpty(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "\n\n")
}
