package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clubmembers/cmd/client/cmd/types"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var registerEmail string

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрировать нового пользователя",
	Long: `Регистрация нового пользователя на сервере ClubMembers.

Пароль: от 8 до 72 символов, минимум одна буква и одна цифра.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		fmt.Println("=== Регистрация нового пользователя ===")
		fmt.Println()

		email := registerEmail
		if email == "" {
			fmt.Print("Email: ")
			_, _ = fmt.Scanln(&email)
		}
		email = strings.TrimSpace(email)

		password, err := types.ReadPassword("Пароль: ")
		if err != nil {
			return err
		}
		confirm, err := types.ReadPassword("Повторите пароль: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("пароли не совпадают")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		fmt.Println("Регистрация...")
		uid, err := app.Register(ctx, email, password)
		if err != nil {
			return err
		}

		fmt.Println()
		color.Green("✅ Регистрация успешно завершена!")
		fmt.Printf("UID: %s\n", uid)
		fmt.Println("Теперь вы можете войти в систему: clubmembers auth login")
		return nil
	},
}

func init() {
	RegisterCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "email пользователя")
}
