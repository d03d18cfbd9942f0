package tui

import (
	"fmt"
	"sort"
	"strings"

	"taskdeck/internal/model"
	"taskdeck/internal/staleness"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("Taskdeck  Server=%s  View=%s", m.con.client.BaseURL(), viewToString(m.view)))

	var body string
	switch m.view {
	case viewQueues:
		body = m.queuesList.View()
	case viewTasks:
		body = m.viewTasksSplit()
	case viewConfig:
		body = m.viewConfigPage()
	}

	lines := []string{header, m.statusLine(), body, m.noticeLine(), m.footer()}
	out := strings.Join(lines, "\n")

	if m.modal != modalNone {
		return m.overlayModal(out)
	}
	return out
}

func (m appModel) statusLine() string {
	if m.statusErr != "" {
		return lipgloss.NewStyle().Foreground(colorError).Render("backend: " + m.statusErr)
	}
	parts := []string{}
	if m.health != nil {
		h := "backend: " + m.health.Status
		if m.health.Version != "" {
			h += " " + m.health.Version
		}
		parts = append(parts, h)
	}
	if m.stats != nil {
		parts = append(parts, fmt.Sprintf("sessions=%d queues=%d queued=%d running=%d failed=%d",
			m.stats.Sessions, m.stats.Queues, m.stats.TasksQueued, m.stats.TasksRunning, m.stats.TasksFailed))
	}
	if len(parts) == 0 {
		parts = append(parts, "backend: connecting…")
	}
	if m.view == viewQueues {
		parts = append(parts, "filter="+queueFilterLabel(m.prefs.QueueFilter))
	}
	return styleMuted().Render(strings.Join(parts, "  "))
}

func (m appModel) noticeLine() string {
	if m.notice == "" {
		return ""
	}
	if m.noticeErr {
		return lipgloss.NewStyle().Foreground(colorError).Render(m.notice)
	}
	return styleMuted().Render(m.notice)
}

func (m appModel) footer() string {
	var help string
	switch m.view {
	case viewQueues:
		help = "enter: tasks  f: filter  a: archive  U: unarchive  s: config  ctrl+r: refresh  q: quit"
	case viewTasks:
		help = "c: claim  r: rerun  R: requeue  f: fail  n: enqueue  ctrl+r: refresh  esc: back  q: quit"
	case viewConfig:
		help = "ctrl+r: reload  esc: back  q: quit"
	}
	return styleMuted().Render(help)
}

func (m appModel) viewTasksSplit() string {
	bodyHeight := m.height - 7
	if bodyHeight < 8 {
		bodyHeight = 8
	}
	leftWidth := m.width / 2
	if leftWidth < 40 {
		leftWidth = 40
	}
	rightWidth := m.width - leftWidth - 2
	if rightWidth < 30 {
		rightWidth = 30
	}

	left := m.tasksList.View()

	var detail string
	if t, st, ok := m.selectedTask(); ok {
		detail = renderTaskDetail(t, st, m.selectedQueueName, rightWidth)
	} else {
		detail = lipgloss.NewStyle().Width(rightWidth).Render("No task selected.")
	}
	detail = lipgloss.NewStyle().Width(rightWidth).Height(bodyHeight).Render(detail)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", detail)
}

func renderTaskDetail(t model.Task, st staleness.State, queueName string, width int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(t.ID))
	b.WriteString("\n")
	b.WriteString(styleMuted().Render("queue: " + queueName))
	b.WriteString("\n")
	b.WriteString("status: " + string(t.Status))
	if t.AgentRole != "" {
		b.WriteString("  role: " + t.AgentRole)
	}
	b.WriteString("\n")

	if t.ClaimedAt != nil {
		remain := "remaining " + fmtSeconds(st.RemainingSeconds)
		if st.IsStale {
			remain = "overdue " + fmtSeconds(-st.RemainingSeconds)
		}
		line := fmt.Sprintf("%s  elapsed %s  %s",
			tierLabel(st.Tier()), fmtSeconds(st.ElapsedSeconds), remain)
		b.WriteString(tierStyle(st.Tier()).Render(line))
		b.WriteString("\n")
	}

	if t.Payload != "" {
		b.WriteString("\n")
		b.WriteString(renderMarkdown(t.Payload, width))
		b.WriteString("\n")
	}
	if t.Result != "" {
		b.WriteString("\n")
		b.WriteString(styleMuted().Render("result"))
		b.WriteString("\n")
		b.WriteString(renderMarkdown(t.Result, width))
		b.WriteString("\n")
	}
	if t.Error != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(colorError).Render("error: " + t.Error))
		b.WriteString("\n")
	}
	return b.String()
}

func (m appModel) viewConfigPage() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Config"))
	b.WriteString("\n")
	if len(m.config) == 0 {
		b.WriteString(styleMuted().Render("(empty)"))
		b.WriteString("\n")
	} else {
		keys := make([]string, 0, len(m.config))
		for k := range m.config {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("  %s: %v\n", k, m.config[k]))
		}
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Prompts"))
	b.WriteString("\n")
	for _, p := range m.prompts {
		b.WriteString("  " + p.Name + "\n")
	}
	if len(m.prompts) == 0 {
		b.WriteString(styleMuted().Render("  (none)") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Agent roles"))
	b.WriteString("\n")
	for _, r := range m.roles {
		b.WriteString("  " + r.Name + "\n")
	}
	if len(m.roles) == 0 {
		b.WriteString(styleMuted().Render("  (none)") + "\n")
	}

	for _, e := range m.configErrs {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(colorError).Render(e))
	}
	return b.String()
}

func (m appModel) overlayModal(base string) string {
	var modal string
	switch m.modal {
	case modalConfirm:
		modal = renderConfirmModal(m.width, m.confirmTitle, m.confirmBody, "Confirm", "Cancel", m.confirmFocus)
	case modalEnqueue:
		modal = renderInputModal(m.width, "Enqueue task", m.input.View())
	default:
		return base
	}
	w := m.width
	h := m.height
	if w <= 0 || h <= 0 {
		return modal
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, modal)
}

func fmtSeconds(s int64) string {
	if s < 0 {
		s = -s
	}
	if s < 3600 {
		return fmt.Sprintf("%dm%02ds", s/60, s%60)
	}
	return fmt.Sprintf("%dh%02dm", s/3600, (s%3600)/60)
}
