package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/foxseedlab/kikitori/internal/repository"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(a *app) *cobra.Command {
	var (
		limit     int
		sessionID string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent live sessions, or the transcript of one",
		Long: `List recent live sessions, or the transcript of one.

Examples:
  kikitori history -n 5
  kikitori history --session 0b6f3c9e-1d2a-4c41-9d0e-6f1f4f1b2a77`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			injector, err := a.setup()
			if err != nil {
				return err
			}
			if !a.cfg.HistoryEnabled() {
				return errors.New("history requires DATABASE_URL")
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			repo := do.MustInvoke[repository.Repository](injector)
			loc := a.cfg.Location()
			if sessionID != "" {
				return printSegments(cmd, repo, sessionID, loc)
			}
			sessions, err := repo.ListRecentSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tLANGUAGES\tSTATUS\tSEGMENTS")
			for _, s := range sessions {
				duration := "-"
				if s.EndedAt != nil {
					duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s->%s\t%s\t%d\n",
					s.ID, s.StartedAt.In(loc).Format(historyTimeLayout), duration,
					s.SourceLanguage, s.TargetLanguage, s.Status, s.SegmentCount)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of sessions to show")
	cmd.Flags().StringVar(&sessionID, "session", "", "print the final segments of this session")
	return cmd
}

func printSegments(cmd *cobra.Command, repo repository.Repository, sessionID string, loc *time.Location) error {
	segments, err := repo.ListSegmentsBySessionID(cmd.Context(), sessionID)
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return fmt.Errorf("no segments recorded for session %s", sessionID)
	}
	out := cmd.OutOrStdout()
	for _, seg := range segments {
		fmt.Fprintf(out, "[%s] %s\n", seg.SpokenAt.In(loc).Format(historyTimeLayout), seg.Original)
		fmt.Fprintf(out, "  -> %s\n", seg.Translated)
	}
	return nil
}
