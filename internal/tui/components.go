package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pders01/journal/internal/listview"
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
// Width is used to guide truncation via helpers.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

// renderCentered centers the provided content within the given width/height box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

// renderField stacks a label, the input and its validation message.
func renderField(label, input, errText string) string {
	rows := []string{FieldLabelStyle.Render(label), input}
	if errText != "" {
		rows = append(rows, FieldErrorStyle.Render(errText))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderPager draws "‹ 1 … 4 5 6 … 10 ›" with the current page highlighted.
func renderPager(current, total int) string {
	parts := []string{renderMuted("‹")}
	for _, m := range listview.Window(current, total) {
		switch {
		case m.Ellipsis:
			parts = append(parts, renderMuted("…"))
		case m.Page == current:
			parts = append(parts, CurrentPageStyle.Render(m.String()))
		default:
			parts = append(parts, PageStyle.Render(m.String()))
		}
	}
	parts = append(parts, renderMuted("›"))
	return strings.Join(parts, " ")
}
