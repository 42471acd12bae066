package member

import (
	"fmt"
	"strings"

	"clubmembers/cmd/client/cmd/types"
	"clubmembers/internal/domain/member"

	"github.com/spf13/cobra"
)

var SearchCmd = &cobra.Command{
	Use:   "search <текст>",
	Short: "Поиск среди истекших участников",
	Long:  `Ищет текст в имени, email и телефоне без учета регистра.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		var found []member.Member
		searcher := app.Query().SearchExpired(func(list []member.Member) {
			found = list
		})
		defer searcher.Close()

		if err := searcher.SetTerm(cmd.Context(), strings.Join(args, " ")); err != nil {
			return fmt.Errorf("ошибка поиска: %w", err)
		}
		return output(cmd, found)
	},
}
