package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/export"
	"github.com/spf13/cobra"
)

func exportExpensesCmd(env func() *Env) *cobra.Command {
	var (
		encoding string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "export-expenses <project-code>",
		Short: "Export a project's expenses as CSV",
		Long: `Writes every expense of the project, one row per entry ordered by expense id.
Use --encoding latin1 for spreadsheets that expect Windows-1252.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := export.ParseEncoding(encoding)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			if err := env().Budget.ExportExpenses(cmd.Context(), args[0], w, enc); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s wrote %s (%s)\n",
					color.New(color.FgGreen).Sprint("✓"), output, enc.Charset())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "utf-8", "Character set: utf-8 or latin1")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
