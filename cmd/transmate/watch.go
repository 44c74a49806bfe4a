package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/transmate/internal/config"
	"github.com/vadimtrunov/transmate/internal/core"
)

func newWatchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of all torrents",
		Long:  "Refresh the torrent list until q or Ctrl+C is pressed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return errors.New("watch needs an interactive terminal; use list instead")
			}

			ctx, cancel, tc, cfg, err := setupWithConfig(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			if interval <= 0 {
				interval = cfg.App.WatchInterval
			}

			p := tea.NewProgram(newWatchModel(ctx, tc, interval), tea.WithAltScreen())

			go func() {
				<-ctx.Done()
				p.Send(tea.Quit())
			}()

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run watch: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (default from config)")
	return cmd
}

type (
	tickMsg     time.Time
	snapshotMsg struct {
		data *core.AllData
		err  error
	}
)

// watchModel is the Bubble Tea model of the watch view.
type watchModel struct {
	ctx      context.Context
	client   core.TorrentClient
	interval time.Duration
	spinner  spinner.Model

	torrents    []core.Torrent
	labels      []core.Label
	err         error
	lastUpdated time.Time
	loading     bool
}

func newWatchModel(ctx context.Context, client core.TorrentClient, interval time.Duration) watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo

	return watchModel{
		ctx:      ctx,
		client:   client,
		interval: interval,
		spinner:  s,
		loading:  true,
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func fetchCmd(ctx context.Context, client core.TorrentClient) tea.Cmd {
	return func() tea.Msg {
		data, err := client.AllData(ctx)
		if err != nil {
			config.LoggerFromContext(ctx).Debug("watch refresh failed", "error", err)
		}
		return snapshotMsg{data: data, err: err}
	}
}

// Init implements tea.Model.
func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchCmd(m.ctx, m.client), tickCmd(m.interval))
}

// Update implements tea.Model.
func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, fetchCmd(m.ctx, m.client)
		}
		return m, nil

	case tickMsg:
		if m.loading {
			return m, tickCmd(m.interval)
		}
		m.loading = true
		return m, tea.Batch(fetchCmd(m.ctx, m.client), tickCmd(m.interval))

	case snapshotMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.torrents = msg.data.Torrents
			m.labels = msg.data.Labels
			m.lastUpdated = time.Now()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m watchModel) View() string {
	var b strings.Builder

	status := styleDim.Render("updated " + m.lastUpdated.Format(time.TimeOnly))
	if m.lastUpdated.IsZero() {
		status = styleDim.Render("connecting")
	}
	if m.loading {
		status = m.spinner.View() + " " + status
	}
	b.WriteString(styleHeader.Render(fmt.Sprintf("Torrents (%d)", len(m.torrents))))
	b.WriteString("\n" + status + "\n\n")

	if m.err != nil {
		b.WriteString(styleError.Render(m.err.Error()) + "\n\n")
	}

	var down, up int64
	for _, t := range m.torrents {
		b.WriteString(torrentLine(t) + "\n")
		down += t.DownloadSpeed
		up += t.UploadSpeed
	}
	if len(m.torrents) == 0 && m.err == nil && !m.lastUpdated.IsZero() {
		b.WriteString(styleDim.Render("No torrents.") + "\n")
	}

	b.WriteString("\n" + styleDim.Render(fmt.Sprintf("↓ %s  ↑ %s  labels %d  ·  r refresh  q quit",
		formatSpeed(down), formatSpeed(up), len(m.labels))))
	return b.String()
}
