package member

import (
	"errors"
	"fmt"
	"time"

	"clubmembers/cmd/client/cmd/types"
	"clubmembers/internal/domain/member"

	"github.com/spf13/cobra"
)

var GetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Показать участника",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		m, err := app.Members().Get(cmd.Context(), id)
		if errors.Is(err, member.ErrNotFound) {
			return fmt.Errorf("участник %d не найден", id)
		}
		if err != nil {
			return err
		}

		if types.OptionsFrom(cmd).JSON {
			return types.PrintJSON(toView(m, member.Today(time.Now())))
		}
		printMember(m)
		return nil
	},
}
