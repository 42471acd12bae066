package member

import (
	"context"
	"fmt"
	"time"

	"clubmembers/cmd/client/cmd/types"

	"github.com/spf13/cobra"
)

var PaymentsCmd = &cobra.Command{
	Use:   "payments <id>",
	Short: "История оплат участника",
	Long:  `Оплаты хранятся только на сервере; новые первыми.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.RequireAuth(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		list := app.Members().Payments(ctx, id)
		if types.OptionsFrom(cmd).JSON {
			return types.PrintJSON(toPaymentViews(list))
		}
		fmt.Printf("Оплаты участника %d:\n", id)
		printPayments(list)
		return nil
	},
}
