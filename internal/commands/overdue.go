package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

func newMarkOverdueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-overdue",
		Short: "Flag open transactions due before today as overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			n, err := rt.svc.Transactions.MarkOverdue(cmd.Context(), time.Now())
			if err != nil {
				return fmt.Errorf("marking overdue: %w", err)
			}

			slog.Info("marked transactions overdue", "count", n)
			fmt.Fprintf(cmd.OutOrStdout(), "%d transaction(s) marked overdue\n", n)

			return nil
		},
	}
}
