package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/model"
)

func newShowCmd(f *Flags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the board in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}

			s, b, err := openSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			}
			return printBoard(cmd.OutOrStdout(), b, cfg.Display.ShowResolution)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the board as JSON")
	return cmd
}

func printBoard(w io.Writer, b model.Board, showResolution bool) error {
	if len(b.Lists) == 0 {
		_, err := fmt.Fprintln(w, "No lists.")
		return err
	}

	for i, lv := range b.Lists {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s [%s]\n", lv.List.Name, lv.List.ID)
		for _, t := range lv.Tasks {
			fmt.Fprintf(w, "  %-2s %-7s %s\n", t.ID, t.Status.Label(), t.Description)
			if showResolution && t.Resolution != "" {
				fmt.Fprintf(w, "             resolved: %s\n", t.Resolution)
			}
		}
	}
	return nil
}
