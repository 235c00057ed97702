package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "kikitori",
		Short: "Live transcription, translation and summarization client",
		Long: `kikitori streams captured audio to a transcription server, shows the
running transcript and its translation, and asks the server for a summary
when the session stops. Recorded files and plain text can be summarized
directly.

Configuration is read from the environment (TRANSCRIBER_BASE_URL is
required for every command that talks to the server).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newLiveCommand(a),
		newSummarizeFileCommand(a),
		newSummarizeTextCommand(a),
		newDevicesCommand(a),
		newLanguagesCommand(),
		newHistoryCommand(a),
	)
	return root
}
