package main

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/foxseedlab/kikitori/internal/session"
	"github.com/foxseedlab/kikitori/internal/summarizer"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func newSummarizeFileCommand(a *app) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "summarize-file PATH",
		Short: "Summarize a recorded audio or video file",
		Long: `Summarize a recorded audio or video file.

Video files (video/* by extension or content) go to the video endpoint,
everything else to the audio endpoint.

Examples:
  kikitori summarize-file meeting.mp3 --target en
  kikitori summarize-file lecture.mp4 -t ja`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			injector, err := a.setup()
			if err != nil {
				return err
			}
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			media := summarizer.Media{
				Filename: filepath.Base(path),
				Data:     data,
				Kind:     summarizer.MediaKindFromMIME(detectMIME(path, data)),
			}
			if err := connectDiscord(cmd.Context(), injector); err != nil {
				return err
			}
			controller := do.MustInvoke[*session.Controller](injector)
			controller.SetObserver(newTerminalObserver(cmd.OutOrStdout(), cmd.ErrOrStderr()))
			res, err := controller.SummarizeFile(cmd.Context(), media, target)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "summary language code (default: DEFAULT_TARGET_LANGUAGE)")
	return cmd
}

func newSummarizeTextCommand(a *app) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "summarize-text [PATH|-]",
		Short: "Summarize a plain-text transcript",
		Long: `Summarize a plain-text transcript read from a file or stdin.

Examples:
  kikitori summarize-text notes.txt
  pbpaste | kikitori summarize-text -t en`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			injector, err := a.setup()
			if err != nil {
				return err
			}
			var data []byte
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read transcript: %w", err)
			}
			if err := connectDiscord(cmd.Context(), injector); err != nil {
				return err
			}
			controller := do.MustInvoke[*session.Controller](injector)
			controller.SetObserver(newTerminalObserver(cmd.OutOrStdout(), cmd.ErrOrStderr()))
			res, err := controller.SummarizeTranscript(cmd.Context(), string(data), target)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "summary language code (default: DEFAULT_TARGET_LANGUAGE)")
	return cmd
}

func detectMIME(path string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return http.DetectContentType(data)
}
