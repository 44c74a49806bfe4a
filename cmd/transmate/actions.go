package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/transmate/internal/core"
	"github.com/vadimtrunov/transmate/internal/transmission"
)

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show daemon session settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, tc, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			s, err := tc.GetSession(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleHeader.Render(fmt.Sprintf("Transmission %s (RPC %d)", s.Version, s.RPCVersion)))
			rows := [][]string{
				{"Download dir", s.DownloadDir},
				{"Free space", formatSize(s.DownloadDirFreeSpace)},
				{"Peer port", fmt.Sprint(s.PeerPort)},
				{"Encryption", s.Encryption},
				{"Download limit", speedLimit(s.SpeedLimitDownEnabled, s.SpeedLimitDown)},
				{"Upload limit", speedLimit(s.SpeedLimitUpEnabled, s.SpeedLimitUp)},
				{"Alt speed", onOff(s.AltSpeedEnabled)},
				{"DHT / PEX / LPD", fmt.Sprintf("%s / %s / %s", onOff(s.DHTEnabled), onOff(s.PEXEnabled), onOff(s.LPDEnabled))},
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows, nil, isTerminal(out)))
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var (
		paused      bool
		label       string
		downloadDir string
	)
	cmd := &cobra.Command{
		Use:   "add <magnet|path|base64>",
		Short: "Add a torrent",
		Long: "Add a torrent from a magnet link, a .torrent file or base64 metainfo.\n" +
			"Files go to /downloads unless --download-dir is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, tc, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			t, err := tc.NormalizedAddTorrent(ctx, transmission.SourceFromString(args[0]), core.AddOptions{
				StartPaused: paused,
				Label:       label,
				DownloadDir: downloadDir,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleSuccess.Render("✓ Added "+t.Name))
			printTorrent(out, *t)
			return nil
		},
	}
	cmd.Flags().BoolVar(&paused, "paused", false, "add without starting")
	cmd.Flags().StringVar(&label, "label", "", "label to attach")
	cmd.Flags().StringVar(&downloadDir, "download-dir", "", "download directory on the daemon host")
	return cmd
}

// idsAction matches the method expressions of the selection-based client calls.
type idsAction func(tc *transmission.Client, ctx context.Context, ids transmission.IDs) error

// newIDsCmd builds a command that applies action to the torrents named by its arguments.
func newIDsCmd(use, short, done string, action idsAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <ids...>",
		Short: short,
		Long:  short + ". Ids are info-hashes, numeric ids or \"recently-active\".",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, tc, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			ids := transmission.ParseIDs(args)
			if err := action(tc, ctx, ids); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render(fmt.Sprintf("✓ %s %s", done, ids)))
			return nil
		},
	}
}

func newPauseCmd() *cobra.Command {
	return newIDsCmd("pause", "Stop torrents", "Paused", (*transmission.Client).PauseTorrent)
}

func newResumeCmd() *cobra.Command {
	return newIDsCmd("resume", "Start torrents", "Resumed", (*transmission.Client).ResumeTorrent)
}

func newVerifyCmd() *cobra.Command {
	return newIDsCmd("verify", "Verify local data of torrents", "Verifying", (*transmission.Client).VerifyTorrent)
}

func newReannounceCmd() *cobra.Command {
	return newIDsCmd("reannounce", "Ask trackers for more peers", "Reannounced", (*transmission.Client).ReannounceTorrent)
}

func newRemoveCmd() *cobra.Command {
	var deleteData bool
	cmd := newIDsCmd("remove", "Remove torrents", "Removed",
		func(tc *transmission.Client, ctx context.Context, ids transmission.IDs) error {
			return tc.RemoveTorrent(ctx, ids, deleteData)
		})
	cmd.Aliases = []string{"rm"}
	cmd.Flags().BoolVar(&deleteData, "delete-data", false, "also delete downloaded files")
	return cmd
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <location>",
		Short: "Move torrent data to a new location",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, tc, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			ids := transmission.ParseID(args[0])
			if err := tc.MoveTorrent(ctx, ids, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render(fmt.Sprintf("✓ Moving %s to %s", ids, args[1])))
			return nil
		},
	}
}

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Reorder the download queue",
	}
	cmd.AddCommand(
		newIDsCmd("top", "Move torrents to the front of the queue", "Moved to top", (*transmission.Client).QueueTop),
		newIDsCmd("bottom", "Move torrents to the back of the queue", "Moved to bottom", (*transmission.Client).QueueBottom),
		newIDsCmd("up", "Move torrents one place forward", "Moved up", (*transmission.Client).QueueUp),
		newIDsCmd("down", "Move torrents one place back", "Moved down", (*transmission.Client).QueueDown),
	)
	return cmd
}

func newFreeSpaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "free-space [path]",
		Short: "Show free disk space on the daemon host",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, tc, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			fs, err := tc.FreeSpace(ctx, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s free\n", fs.Path, styleInfo.Render(formatSize(fs.SizeBytes)))
			return nil
		},
	}
}

func speedLimit(enabled bool, kbps int) string {
	if !enabled {
		return "unlimited"
	}
	return fmt.Sprintf("%d kB/s", kbps)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
