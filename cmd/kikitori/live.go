package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foxseedlab/kikitori/internal/discord"
	"github.com/foxseedlab/kikitori/internal/session"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

const discordConnectTimeout = 20 * time.Second

func newLiveCommand(a *app) *cobra.Command {
	var (
		deviceID string
		source   string
		target   string
		outPath  string
	)
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Transcribe and translate a capture device until interrupted",
		Long: `Transcribe and translate a capture device until interrupted.

Finals are printed to stdout as they arrive. On Ctrl-C the session stops,
the transcript is summarized and the summary is printed.

Examples:
  arecord -f S16_LE -r 16000 -c 1 | kikitori live --device - --source id --target en
  kikitori live --device meeting.fifo --out report.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			injector, err := a.setup()
			if err != nil {
				return err
			}
			controller := do.MustInvoke[*session.Controller](injector)
			if err := connectDiscord(cmd.Context(), injector); err != nil {
				return err
			}

			obs := newTerminalObserver(cmd.OutOrStdout(), cmd.ErrOrStderr())
			controller.SetObserver(obs)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := controller.StartSession(ctx, session.StartRequest{
				DeviceID:       deviceID,
				SourceLanguage: source,
				TargetLanguage: target,
			}); err != nil {
				return err
			}

			select {
			case <-ctx.Done():
			case f := <-obs.failed:
				return f
			}

			results, err := controller.StopSession(context.Background())
			if errors.Is(err, session.ErrNotStreaming) {
				select {
				case f := <-obs.failed:
					return f
				default:
				}
			}
			if err != nil {
				return err
			}
			res := <-results
			if outPath != "" {
				if err := os.WriteFile(outPath, controller.LastReport(), 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				slog.Info("session report written", "path", outPath)
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&deviceID, "device", "d", "", "capture device id (default: first device)")
	cmd.Flags().StringVarP(&source, "source", "s", "", "spoken language code (default: DEFAULT_SOURCE_LANGUAGE)")
	cmd.Flags().StringVarP(&target, "target", "t", "", "translation language code (default: DEFAULT_TARGET_LANGUAGE)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the session report to this file")
	return cmd
}

// connectDiscord verifies the bot token when Discord publishing is enabled.
func connectDiscord(ctx context.Context, injector do.Injector) error {
	dc := do.MustInvoke[discord.Client](injector)
	if !dc.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, discordConnectTimeout)
	defer cancel()
	if err := dc.Connect(ctx); err != nil {
		return fmt.Errorf("discord connect failed: %w", err)
	}
	botUserID, err := dc.GetBotUserID()
	if err != nil {
		return fmt.Errorf("discord bot identity: %w", err)
	}
	slog.Info("discord connected", "bot_user_id", botUserID)
	return nil
}
