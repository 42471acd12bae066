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

var (
	loginEmail string
	skipSync   bool
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в систему ClubMembers",
	Long: `Аутентификация на сервере ClubMembers.

После входа токен сохраняется локально, и выполняется двусторонняя
синхронизация: записи, созданные без сети, уходят на сервер.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		fmt.Println("=== Вход в систему ===")
		fmt.Println()

		email := loginEmail
		if email == "" {
			fmt.Print("Email: ")
			_, _ = fmt.Scanln(&email)
		}
		email = strings.TrimSpace(email)

		password, err := types.ReadPassword("Пароль: ")
		if err != nil {
			return err
		}

		fmt.Println("Аутентификация...")
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Login(ctx, email, password); err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		fmt.Println()
		color.Green("✅ Вход выполнен успешно!")

		if skipSync {
			return nil
		}

		fmt.Println("Синхронизация данных...")
		result, err := app.Engine().SyncBidirectional(ctx)
		switch {
		case err != nil:
			color.Yellow("⚠️  Предупреждение: ошибка синхронизации: %v", err)
			fmt.Println("Вы можете продолжить работу в офлайн-режиме")
		default:
			fmt.Printf("✓ Данные синхронизированы (отправлено: %d, получено: %d)\n",
				result.Uploaded, result.Downloaded)
		}
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "email пользователя")
	LoginCmd.Flags().BoolVar(&skipSync, "no-sync", false, "не синхронизировать после входа")
}
