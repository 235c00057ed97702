package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/foxseedlab/kikitori/internal/audio"
	"github.com/foxseedlab/kikitori/internal/config"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func newDevicesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List capture devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			injector, err := a.setup()
			if err != nil {
				return err
			}
			capturer := do.MustInvoke[audio.Capturer](injector)
			devices, err := capturer.ListDevices(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL")
			for _, d := range devices {
				fmt.Fprintf(w, "%s\t%s\n", d.ID, d.Label)
			}
			return w.Flush()
		},
	}
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported language codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tLANGUAGE")
			for _, l := range config.SupportedLanguages() {
				fmt.Fprintf(w, "%s\t%s\n", l.Code, l.Name)
			}
			return w.Flush()
		},
	}
}
