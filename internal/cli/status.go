package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/status"
	"github.com/spf13/cobra"
)

func statusCmd(env func() *Env) *cobra.Command {
	var (
		today    string
		lateOnly bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the status board of every project",
		Long: `Evaluates the schedule of every project and prints one row per project
with its derived status and next milestone.

Use --today to evaluate as of another date (DD/MM/YYYY).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := service.DashboardOptions{LateOnly: lateOnly}
			if today != "" {
				t, err := domain.ParseDate(today)
				if err != nil {
					return fmt.Errorf("invalid --today: %w", err)
				}
				opts.Today = &t
			}

			board, err := env().Dashboard.StatusBoard(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printBoard(cmd.OutOrStdout(), board)
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "Evaluate as of this date (DD/MM/YYYY)")
	cmd.Flags().BoolVar(&lateOnly, "late-only", false, "Only show late projects")
	return cmd
}

func statusColor(s string) *color.Color {
	switch s {
	case status.Late:
		return color.New(color.FgRed, color.Bold)
	case status.OnTime:
		return color.New(color.FgGreen)
	case status.DateError, status.NoSchedule:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgHiBlack)
	}
}

func printBoard(out io.Writer, board *domain.DashboardDTO) error {
	fmt.Fprintf(out, "Status as of %s\n\n", board.Today)
	if len(board.Rows) == 0 {
		fmt.Fprintln(out, "No projects.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tACRONYM\tSTATUS\tNEXT EVENT\tDATE\tDAYS")
	for _, row := range board.Rows {
		days := ""
		if row.DayOffset != nil {
			days = fmt.Sprintf("%d", *row.DayOffset)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Code, row.Acronym, statusColor(row.Status).Sprint(row.Status),
			row.NextEventLabel, row.NextEventDate, days)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, row := range board.Rows {
		if row.Warning != "" {
			fmt.Fprintf(out, "%s %s: %s\n", color.New(color.FgYellow).Sprint("warning"), row.Code, row.Warning)
		}
	}
	fmt.Fprintf(out, "\n%d projects, %d late\n", len(board.Rows), board.Counts[status.Late])
	return nil
}
