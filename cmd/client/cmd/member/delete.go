package member

import (
	"fmt"
	"time"

	"clubmembers/cmd/client/cmd/types"
	"clubmembers/internal/domain/member"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	renewUntil  string
	renewMonths int
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить участника",
	Long: `Помечает участника удаленным локально и на сервере.
Если сервер недоступен, удаление уйдет при следующей синхронизации.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := app.Members().MarkDeleted(cmd.Context(), id); err != nil {
			return fmt.Errorf("ошибка удаления участника %d: %w", id, err)
		}
		color.Green("✅ Участник %d удален", id)
		return nil
	},
}

var RenewCmd = &cobra.Command{
	Use:   "renew <id>",
	Short: "Продлить членство",
	Long: `Устанавливает новую дату окончания. Без --until срок продлевается
на --months месяцев от текущей даты окончания или от сегодня, если срок уже истек.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		current, err := app.Members().Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("ошибка получения участника %d: %w", id, err)
		}

		until, err := renewDate(current, time.Now())
		if err != nil {
			return err
		}

		m, err := app.Members().Renew(cmd.Context(), id, until)
		if err != nil {
			return fmt.Errorf("ошибка продления: %w", err)
		}

		if types.OptionsFrom(cmd).JSON {
			return types.PrintJSON(toView(m, member.Today(time.Now())))
		}
		color.Green("✅ Участник %d продлен до %s", id, member.FormatDate(*m.Expiration))
		return nil
	},
}

func renewDate(m member.Member, now time.Time) (time.Time, error) {
	if renewUntil != "" {
		d, err := member.ParseDate(renewUntil)
		if err != nil {
			return time.Time{}, fmt.Errorf("неверная дата %q, ожидается YYYY-MM-DD", renewUntil)
		}
		return d, nil
	}
	if renewMonths <= 0 {
		return time.Time{}, fmt.Errorf("--months должен быть положительным")
	}

	from := member.Today(now)
	if m.Expiration != nil && !m.IsExpired(now) {
		from = member.DateOf(*m.Expiration)
	}
	return from.AddDate(0, renewMonths, 0), nil
}

func init() {
	RenewCmd.Flags().StringVar(&renewUntil, "until", "", "новая дата окончания, YYYY-MM-DD")
	RenewCmd.Flags().IntVar(&renewMonths, "months", 12, "на сколько месяцев продлить")
}
