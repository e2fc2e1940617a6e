package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"osboard/internal/dashboard"
)

const deadlineLayout = "2006-01-02 15:04"

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Faint(true)

	urgencyStyles = map[dashboard.Urgency]lipgloss.Style{
		dashboard.UrgencyLate:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		dashboard.UrgencyUrgent: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		dashboard.UrgencyNormal: lipgloss.NewStyle(),
		dashboard.UrgencyDone:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true),
	}
)

func renderTable(items []dashboard.Item) string {
	if len(items) == 0 {
		return "no orders\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(row("ID", "OS", "STORE", "SALESPERSON", "DEADLINE", "METHOD", "STATE")))
	b.WriteByte('\n')
	for _, it := range items {
		line := row(
			it.ID,
			it.OSNumber,
			it.StoreName,
			it.Salesperson,
			it.Deadline.Local().Format(deadlineLayout),
			it.DeliveryMethod.String(),
			string(it.Urgency),
		)
		b.WriteString(urgencyStyles[it.Urgency].Render(line))
		b.WriteByte('\n')
	}
	return b.String()
}

func row(id, osNumber, store, salesperson, deadline, method, status string) string {
	return fmt.Sprintf("%-36s  %-10s  %-20s  %-14s  %-16s  %-8s  %s",
		id, truncate(osNumber, 10), truncate(store, 20), truncate(salesperson, 14), deadline, method, status)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func renderStats(s dashboard.Stats) string {
	parts := []string{
		labelStyle.Render("total") + " " + fmt.Sprint(s.Total),
		labelStyle.Render("pending") + " " + fmt.Sprint(s.Pending),
		labelStyle.Render("completed") + " " + fmt.Sprint(s.Completed),
		urgencyStyles[dashboard.UrgencyUrgent].Render("urgent") + " " + fmt.Sprint(s.Urgent),
	}
	return strings.Join(parts, "   ")
}
