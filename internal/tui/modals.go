package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const modalMaxWidth = 64

func modalWidth(termWidth int) int {
	w := termWidth - 8
	if w > modalMaxWidth {
		w = modalMaxWidth
	}
	if w < 24 {
		w = 24
	}
	return w
}

func modalBodyWidth(termWidth int) int {
	return modalWidth(termWidth) - 4
}

func renderModalBox(termWidth int, title string, content string) string {
	w := modalWidth(termWidth)

	header := lipgloss.NewStyle().
		Width(w-2).
		Padding(0, 1).
		Bold(true).
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Render(title)

	body := lipgloss.NewStyle().
		Width(w-2).
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Render(content)

	box := lipgloss.JoinVertical(lipgloss.Left, header, body)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Render(box)
}

func renderConfirmModal(termWidth int, title, body, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	// Avoid borders on the buttons: some terminals show background artifacts
	// when nesting bordered components inside a modal with a background color.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	}
	if focus == confirmFocusCancel {
		cancel = btnActive.Render(cancelLabel)
	}

	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)

	bodyW := modalBodyWidth(termWidth)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   esc/ctrl+g: cancel")

	content := strings.Join([]string{
		body,
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(termWidth, title, content)
}

func renderInputModal(termWidth int, title, inputView string) string {
	bodyW := modalBodyWidth(termWidth)
	help := styleMuted().Width(bodyW).Render("enter: submit   esc/ctrl+g: cancel")

	content := strings.Join([]string{
		inputView,
		"",
		help,
	}, "\n")
	return renderModalBox(termWidth, title, content)
}
