package auth

import (
	"context"
	"fmt"
	"time"

	"clubmembers/cmd/client/cmd/types"

	"github.com/spf13/cobra"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из системы",
	Long: `Отзывает токен на сервере и удаляет локальную сессию.
Локальные записи остаются на месте.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		if err := app.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("✓ Сессия завершена")
		return nil
	},
}
