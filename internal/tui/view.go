package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/tdamcheck/internal/document"
)

func (m *model) View() string {
	m.refreshViewportIfDirty()
	parts := []string{
		m.headerView(),
		m.pickerPanel(),
		m.selectionView(),
		m.actionView(),
	}
	if m.session.Uploading() {
		parts = append(parts, m.progressView())
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.notice != "" {
		parts = append(parts, noticeStyle.Render(m.notice))
	}
	if m.session.ShowResults() {
		parts = append(parts, m.resultsView())
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	parts = append(parts, m.statusBarView())
	return joinNonEmpty(parts)
}

func (m *model) headerView() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(appTitle),
		taglineStyle.Render(disclaimer),
	)
}

func (m *model) pickerPanel() string {
	header := sectionHeaderStyle.Render("Choose a File")
	dir := helperStyle.Render(m.picker.CurrentDirectory)
	body := m.picker.View()
	if m.focus != focusPicker {
		body = dimmedStyle.Render(body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, dir, body)
}

func (m *model) selectionView() string {
	file := m.session.File
	if file == nil {
		return helperStyle.Render("No file selected.")
	}
	meta := []string{kindLabel(file.Kind)}
	if file.Size > 0 {
		meta = append(meta, file.SizeLabel())
	}
	if file.Pages > 0 {
		meta = append(meta, fmt.Sprintf("%d pages", file.Pages))
	}
	lines := []string{
		labelStyle.Render("Selected File: ") + file.Name + helperStyle.Render("  ("+strings.Join(meta, ", ")+")"),
	}
	if !file.Supported() {
		lines = append(lines, noticeStyle.Render("The service reads .pdf, .docx and .txt files; it may reject this one."))
	}
	if file.Preview != "" {
		preview := wordwrap.String(file.Preview, m.layout.contentWidth-4)
		lines = append(lines, previewStyle.Render(preview))
	}
	return strings.Join(lines, "\n")
}

func (m *model) actionView() string {
	label := "Check"
	style := buttonStyle
	if !m.session.CanSubmit() {
		style = buttonDisabledStyle
	}
	if m.session.Uploading() {
		label = m.spinner.View() + " Uploading"
	}
	hint := helperStyle.Render("press c to check the selected file, ? for keys")
	return lipgloss.JoinHorizontal(lipgloss.Center, style.Render(label), "  ", hint)
}

func (m *model) progressView() string {
	return m.progress.ViewAs(m.meter.Percent())
}

func (m *model) resultsView() string {
	title := fmt.Sprintf("Compliance Review (%d chunks)", len(m.session.Chunks))
	header := sectionHeaderStyle.Render(title)
	if m.focus == focusResults {
		header += helperStyle.Render("  ↑/↓ to scroll, tab to return to the picker")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
}

func (m *model) statusBarView() string {
	stats := []string{
		fmt.Sprintf("Status %s", m.session.Phase),
		fmt.Sprintf("Endpoint %s", m.config.Settings.Endpoint),
	}
	if m.session.Uploading() {
		stats = append(stats, fmt.Sprintf("Progress %d%%", m.session.Progress))
	}
	if n := len(m.session.Chunks); n > 0 {
		stats = append(stats, fmt.Sprintf("Chunks %d", n))
	}
	if m.lastDuration > 0 && !m.session.Uploading() {
		stats = append(stats, fmt.Sprintf("Took %s", m.lastDuration.Round(time.Millisecond)))
	}
	if badges := m.jobStatusBadges(); len(badges) > 0 {
		stats = append(stats, badges...)
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	var badges []string
	for _, kind := range []jobKind{jobKindInspect, jobKindUpload} {
		snapshot, ok := m.jobStates[kind]
		if !ok || snapshot.Status != jobStatusRunning {
			continue
		}
		badges = append(badges, fmt.Sprintf("%s…", kind))
	}
	return badges
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"↑/↓", "Move"},
		{"enter", "Open or select"},
		{"←/h", "Parent dir"},
		{"c", "Check file"},
		{"tab", "Picker or results"},
		{"pgup/pgdn", "Scroll results"},
		{"?", "Toggle keys"},
		{"q", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Keys")}
	const columns = 4
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func kindLabel(kind document.Kind) string {
	switch kind {
	case document.KindPDF:
		return "PDF"
	case document.KindDOCX:
		return "Word document"
	case document.KindText:
		return "text"
	default:
		return "unknown type"
	}
}
