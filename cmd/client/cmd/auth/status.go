package auth

import (
	"context"
	"fmt"
	"time"

	"clubmembers/cmd/client/cmd/types"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type statusView struct {
	Authenticated bool      `json:"authenticated"`
	Email         string    `json:"email,omitempty"`
	UID           string    `json:"uid,omitempty"`
	Server        string    `json:"server"`
	Reachable     bool      `json:"reachable"`
	CheckedAt     time.Time `json:"checked_at"`
}

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Показать статус сессии",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		uid, _ := app.Session().CurrentUID()
		view := statusView{
			Authenticated: app.IsAuthenticated(),
			Email:         app.Session().Email(),
			UID:           uid,
			Server:        app.Config().BaseURL(),
			Reachable:     app.CheckConnection(ctx) == nil,
			CheckedAt:     time.Now(),
		}

		if types.OptionsFrom(cmd).JSON {
			return types.PrintJSON(view)
		}

		fmt.Printf("🌐 Сервер %s: ", view.Server)
		if view.Reachable {
			color.Green("доступен")
		} else {
			color.Red("недоступен")
		}

		fmt.Print("🔐 Аутентификация: ")
		if view.Authenticated {
			color.Green("%s (uid %s)", view.Email, view.UID)
		} else {
			color.Yellow("требуется вход")
		}
		return nil
	},
}
