package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/transmate/internal/core"
	"github.com/vadimtrunov/transmate/internal/transmission"
)

const (
	progressBarWidth = 30
	shortIDLength    = 8
)

func newListCmd() *cobra.Command {
	var label string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List torrents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, tc, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			torrents, err := tc.List(ctx)
			if err != nil {
				return err
			}
			torrents = filterByLabel(torrents, label)

			out := cmd.OutOrStdout()
			if len(torrents) == 0 {
				fmt.Fprintln(out, styleDim.Render("No torrents."))
				return nil
			}
			fmt.Fprintln(out, torrentTable(torrents, isTerminal(out)))
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "only show torrents with this label")
	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one torrent",
		Long:  "Show one torrent by info-hash or numeric id.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, tc, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			t, err := tc.GetTorrent(ctx, transmission.ParseID(args[0]))
			if err != nil {
				return err
			}
			printTorrentDetails(cmd.OutOrStdout(), *t)
			return nil
		},
	}
}

func newLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List labels in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, tc, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			data, err := tc.GetAllData(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(data.Labels) == 0 {
				fmt.Fprintln(out, styleDim.Render("No labels."))
				return nil
			}
			rows := make([][]string, 0, len(data.Labels))
			for _, l := range data.Labels {
				rows = append(rows, []string{l.Name, fmt.Sprint(l.Count)})
			}
			fmt.Fprintln(out, renderTable([]string{"Label", "Torrents"}, rows,
				[]columnAlignment{alignLeft, alignRight}, isTerminal(out)))
			return nil
		},
	}
}

func filterByLabel(torrents []core.Torrent, label string) []core.Torrent {
	if label == "" {
		return torrents
	}
	out := torrents[:0:0]
	for _, t := range torrents {
		if t.Label == label {
			out = append(out, t)
		}
	}
	return out
}

func torrentTable(torrents []core.Torrent, rounded bool) string {
	headers := []string{"ID", "Name", "State", "Done", "Down", "Up", "ETA", "Ratio", "Size", "Label"}
	aligns := []columnAlignment{
		alignLeft, alignLeft, alignLeft, alignRight, alignRight,
		alignRight, alignRight, alignRight, alignRight, alignLeft,
	}
	rows := make([][]string, 0, len(torrents))
	for _, t := range torrents {
		rows = append(rows, []string{
			shortID(t.ID),
			t.Name,
			string(t.State),
			fmt.Sprintf("%.1f%%", t.Progress*100),
			formatSpeed(t.DownloadSpeed),
			formatSpeed(t.UploadSpeed),
			formatETA(t.ETA),
			fmt.Sprintf("%.2f", t.Ratio),
			formatSize(t.TotalSize),
			t.Label,
		})
	}
	return renderTable(headers, rows, aligns, rounded)
}

func printTorrentDetails(w io.Writer, t core.Torrent) {
	fmt.Fprintln(w, styleHeader.Render(t.Name))
	printTorrent(w, t)

	field := func(name, value string) {
		fmt.Fprintf(w, "   %s %s\n", styleDim.Render(fmt.Sprintf("%-10s", name)), value)
	}
	field("ID", t.ID)
	field("Location", t.SavePath)
	field("Size", fmt.Sprintf("%s of %s selected", formatSize(t.TotalSelected), formatSize(t.TotalSize)))
	field("Ratio", fmt.Sprintf("%.2f (%s up, %s down)", t.Ratio, formatSize(t.TotalUploaded), formatSize(t.TotalDownloaded)))
	field("Peers", fmt.Sprintf("%d sending, %d receiving, %d connected", t.ConnectedPeers, t.ConnectedSeeds, t.TotalPeers))
	field("Queue", fmt.Sprint(t.QueuePosition))
	field("Added", t.DateAdded)
	if t.IsCompleted {
		field("Completed", t.DateCompleted)
	}
	if t.Label != "" {
		field("Label", t.Label)
	}
}

// printTorrent renders the state line and the progress line of a torrent.
func printTorrent(w io.Writer, t core.Torrent) {
	fmt.Fprintln(w, torrentLine(t))
}

func torrentLine(t core.Torrent) string {
	statusStyle := lipgloss.NewStyle().Foreground(statusToColor(t.State))
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	head := fmt.Sprintf("%s %s  %s",
		label.Render(shortID(t.ID)),
		lipgloss.NewStyle().Bold(true).Render(t.Name),
		statusStyle.Render(string(t.State)),
	)
	if t.StateMessage != "" {
		head += "  " + styleError.Render(t.StateMessage)
	}

	details := fmt.Sprintf("   %s  %s %s  %s %s",
		progressBar(t.Progress*100, progressBarWidth),
		label.Render("↓"),
		formatSpeed(t.DownloadSpeed),
		label.Render("↑"),
		formatSpeed(t.UploadSpeed),
	)
	if t.ETA > 0 {
		details += fmt.Sprintf("  %s %s", label.Render("ETA"), formatETA(t.ETA))
	}
	return head + "\n" + details
}

func statusToColor(state core.TorrentState) lipgloss.Color {
	switch state {
	case core.StateDownloading:
		return lipgloss.Color("12") // blue
	case core.StateSeeding:
		return lipgloss.Color("10") // green
	case core.StatePaused:
		return lipgloss.Color("11") // yellow
	case core.StateQueued:
		return lipgloss.Color("14") // cyan
	case core.StateChecking:
		return lipgloss.Color("13") // magenta
	default:
		return lipgloss.Color("8") // gray
	}
}

func progressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	empty := width - filled

	bar := styleInfo.Render(strings.Repeat("█", filled)) +
		styleDim.Render(strings.Repeat("░", empty))
	return fmt.Sprintf("%s %s", bar, styleDim.Render(fmt.Sprintf("%.1f%%", percent)))
}

func formatSpeed(bytesPerSec int64) string {
	if bytesPerSec <= 0 {
		return "0 B/s"
	}
	return humanize.IBytes(uint64(bytesPerSec)) + "/s"
}

func formatSize(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}

// formatETA formats seconds left. The daemon reports -1 and -2 when the ETA
// is unavailable or unknown.
func formatETA(seconds int64) string {
	if seconds <= 0 {
		return "∞"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}
