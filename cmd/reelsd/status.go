package main

import (
	"fmt"
	"reelsd/internal/di"
	"reelsd/internal/models"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")).Width(12)
	valueStyle = lipgloss.NewStyle().Bold(true)
	alertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#89B4FA")).Padding(0, 1)
)

func statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print today's counters, streak and timer state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			core, cleanup, err := di.InitService(&flags)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintln(cmd.OutOrStdout(), renderStatus(core.Service.Snapshot(), core.Service.IsBlocked()))
			return nil
		},
	}
}

func renderStatus(s models.Snapshot, blocked bool) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}
	progress := func(value, limit int, text string) string {
		if limit > 0 && value >= limit {
			return alertStyle.Render(text)
		}
		return text
	}

	tracking := "off"
	if s.Timer.TrackingEnabled {
		tracking = fmt.Sprintf("every %ds", s.Timer.IntervalSeconds)
	}
	focus := "off"
	if s.State.FocusWindow.Enabled {
		focus = fmt.Sprintf("%s-%s", s.State.FocusWindow.StartTime, s.State.FocusWindow.EndTime)
		if blocked {
			focus += " (active)"
		}
	}
	lock := "off"
	if s.State.ParentalLock.Enabled {
		lock = "on"
	}

	lines := []string{
		titleStyle.Render("Reels today"),
		row("Reels", progress(s.State.ReelsWatched, s.State.ReelsLimit,
			fmt.Sprintf("%d / %d", s.State.ReelsWatched, s.State.ReelsLimit))),
		row("Time", progress(s.State.TimeSpent, s.State.TimeLimit,
			fmt.Sprintf("%dm / %dm", s.State.TimeSpent/60, s.State.TimeLimit/60))),
		row("Streak", fmt.Sprintf("%d / %d days", s.State.StreakDays, s.Preferences.StreakGoal)),
		row("Tracking", tracking),
		row("Focus", focus),
		row("Lock", lock),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
