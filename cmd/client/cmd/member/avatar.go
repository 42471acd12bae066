package member

import (
	"context"
	"fmt"
	"time"

	"clubmembers/cmd/client/cmd/types"

	"github.com/spf13/cobra"
)

var AvatarCmd = &cobra.Command{
	Use:   "avatar <id>",
	Short: "Ссылка на фотографию участника",
	Long:  `Выдает подписанную ссылку на аватар, действующую 30 минут.`,
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

		m, err := app.Members().Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("ошибка получения участника %d: %w", id, err)
		}
		if m.AvatarURL == nil || *m.AvatarURL == "" {
			return fmt.Errorf("у участника %d нет фотографии", id)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		url := app.Members().AvatarURL(ctx, *m.AvatarURL)
		if url == "" {
			return fmt.Errorf("не удалось получить ссылку на фотографию")
		}

		if types.OptionsFrom(cmd).JSON {
			return types.PrintJSON(map[string]string{"key": *m.AvatarURL, "url": url})
		}
		fmt.Println(url)
		return nil
	},
}
