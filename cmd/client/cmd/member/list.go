package member

import (
	"fmt"

	"clubmembers/cmd/client/cmd/types"
	"clubmembers/internal/app/client/query"
	"clubmembers/internal/domain/member"

	"github.com/spf13/cobra"
)

var (
	listSort string
	listDesc bool

	expiredSort   string
	expiredAsc    bool
	expiredOffset int
	expiredLimit  int

	offline bool
)

// pullOnStart перед показом списка забирает свежие данные с сервера.
func pullOnStart(cmd *cobra.Command, _ []string) error {
	if offline {
		return nil
	}
	app, err := types.App(cmd)
	if err != nil {
		return err
	}
	app.PullOnStart(cmd.Context())
	return nil
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Активные участники",
	Long: `Участники без срока или со сроком не раньше сегодняшнего.
По умолчанию ближайшие к окончанию первыми.`,
	Args:    cobra.NoArgs,
	PreRunE: pullOnStart,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		by, err := query.ParseSortBy(listSort)
		if err != nil {
			return err
		}

		list, err := app.Query().Active(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения списка: %w", err)
		}
		if cmd.Flags().Changed("sort") || listDesc {
			query.Sort(list, by, !listDesc)
		}
		return output(cmd, list)
	},
}

var ExpiredCmd = &cobra.Command{
	Use:   "expired",
	Short: "Участники с истекшим сроком",
	Long: `Постраничный просмотр участников с истекшим сроком.
По умолчанию недавно истекшие первыми.`,
	Args:    cobra.NoArgs,
	PreRunE: pullOnStart,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		by, err := query.ParseSortBy(expiredSort)
		if err != nil {
			return err
		}

		list, err := app.Query().ExpiredPage(cmd.Context(), query.Page{
			Offset:    expiredOffset,
			Limit:     expiredLimit,
			SortBy:    by,
			Ascending: expiredAsc,
		})
		if err != nil {
			return fmt.Errorf("ошибка получения списка: %w", err)
		}
		return output(cmd, list)
	},
}

func output(cmd *cobra.Command, list []member.Member) error {
	if types.OptionsFrom(cmd).JSON {
		return types.PrintJSON(toViews(list))
	}
	printTable(list)
	return nil
}

func init() {
	ListCmd.Flags().StringVar(&listSort, "sort", "expiration", "сортировка: name, created, expiration")
	ListCmd.Flags().BoolVar(&listDesc, "desc", false, "по убыванию")
	ListCmd.Flags().BoolVar(&offline, "offline", false, "не загружать данные с сервера перед показом")

	ExpiredCmd.Flags().StringVar(&expiredSort, "sort", "expiration", "сортировка: name, created, expiration")
	ExpiredCmd.Flags().BoolVar(&expiredAsc, "asc", false, "по возрастанию")
	ExpiredCmd.Flags().IntVar(&expiredOffset, "offset", 0, "смещение")
	ExpiredCmd.Flags().IntVar(&expiredLimit, "limit", 20, "размер страницы (0 - все)")
	ExpiredCmd.Flags().BoolVar(&offline, "offline", false, "не загружать данные с сервера перед показом")
}
