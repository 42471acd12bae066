package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubmembers/cmd/client/cmd/types"
	"clubmembers/internal/app/client"
	clientsync "clubmembers/internal/app/client/sync"
	"clubmembers/internal/domain/member"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	pullOnly   bool
	syncStatus bool
	watch      bool
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Синхронизация с сервером",
	Long: `Синхронизация данных между клиентом и сервером.

По умолчанию выполняется двусторонняя синхронизация: локальные изменения
уходят на сервер, затем применяются более новые удаленные версии.
При равных метках изменения остается локальная версия.

--pull только забирает данные с сервера. Внимание: если на сервере нет
ни одной записи, локальная база будет очищена.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if syncStatus {
			return showSyncStatus(cmd, app)
		}

		if !app.IsAuthenticated() {
			return fmt.Errorf("требуется аутентификация. Выполните: clubmembers auth login")
		}

		if watch {
			return runWatch(cmd.Context(), app)
		}
		return runSync(cmd, app)
	},
}

func runSync(cmd *cobra.Command, app *client.App) error {
	ctx := cmd.Context()
	engine := app.Engine()

	var (
		result *clientsync.SyncResult
		err    error
	)
	if pullOnly {
		fmt.Println("Загрузка данных с сервера...")
		result, err = engine.PullLatest(ctx)
	} else {
		fmt.Println("Начало синхронизации...")
		result, err = engine.SyncBidirectional(ctx)
	}
	if errors.Is(err, clientsync.ErrSyncInProgress) {
		color.Yellow("⚠️  Синхронизация уже выполняется")
		return nil
	}

	if types.OptionsFrom(cmd).JSON && result != nil {
		if perr := types.PrintJSON(result); perr != nil {
			return perr
		}
		return err
	}

	if result != nil {
		printResult(result)
	}
	if err != nil {
		return fmt.Errorf("ошибка синхронизации: %w", err)
	}
	return nil
}

func printResult(result *clientsync.SyncResult) {
	fmt.Println()
	if result.Success {
		color.Green("✅ Синхронизация завершена!")
	} else {
		color.Yellow("⚠️  Синхронизация завершена с ошибками")
	}
	fmt.Printf("Время выполнения: %v\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("Отправлено на сервер: %d записей\n", result.Uploaded)
	fmt.Printf("Получено с сервера: %d записей\n", result.Downloaded)
	fmt.Printf("Удалено локально: %d записей\n", result.Removed)
	if result.Skipped > 0 {
		color.Yellow("Не разобрано удаленных записей: %d (локальные копии сохранены)", result.Skipped)
	}

	if len(result.Errors) > 0 {
		fmt.Printf("Ошибок при синхронизации: %d\n", len(result.Errors))
		for i, e := range result.Errors {
			if i < 3 { // Показываем только первые 3 ошибки
				fmt.Printf("  • %s: %s\n", e.Operation, e.Error)
			}
		}
		if len(result.Errors) > 3 {
			fmt.Printf("  ... и еще %d ошибок\n", len(result.Errors)-3)
		}
	}
}

type statusView struct {
	Stats           clientsync.SyncStats `json:"stats"`
	LocalRecords    int                  `json:"local_records"`
	PendingUploads  int                  `json:"pending_uploads"`
	Reachable       bool                 `json:"reachable"`
	Authenticated   bool                 `json:"authenticated"`
	IntervalSeconds float64              `json:"interval_seconds"`
}

func showSyncStatus(cmd *cobra.Command, app *client.App) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	count, err := app.Store().Count(ctx)
	if err != nil {
		return fmt.Errorf("ошибка подсчета записей: %w", err)
	}

	view := statusView{
		Stats:           app.Engine().Stats(),
		LocalRecords:    count,
		Reachable:       app.CheckConnection(ctx) == nil,
		Authenticated:   app.IsAuthenticated(),
		IntervalSeconds: app.Config().SyncInterval.Seconds(),
	}
	if view.Reachable && view.Authenticated {
		view.PendingUploads = app.Engine().LocallyModifiedCount(ctx)
	}

	if types.OptionsFrom(cmd).JSON {
		return types.PrintJSON(view)
	}

	fmt.Println("=== Статус синхронизации ===")
	fmt.Printf("  Локальных записей: %d\n", view.LocalRecords)
	fmt.Printf("  Ожидают отправки: %d\n", view.PendingUploads)
	fmt.Printf("  Интервал автосинхронизации: %v\n", app.Config().SyncInterval)

	fmt.Printf("\n🌐 Соединение с сервером: ")
	if view.Reachable {
		color.Green("OK")
	} else {
		color.Red("недоступен")
	}

	fmt.Printf("🔐 Аутентификация: ")
	if view.Authenticated {
		color.Green("выполнена")
	} else {
		color.Yellow("требуется вход")
	}
	return nil
}

// runWatch синхронизирует по таймеру до Ctrl+C и печатает число активных
// участников после каждого изменения локальной базы.
func runWatch(ctx context.Context, app *client.App) error {
	last := -1
	sub, err := app.Query().ObserveActive(ctx, func(list []member.Member) {
		if len(list) != last {
			last = len(list)
			fmt.Printf("[%s] активных участников: %d\n", time.Now().Format("15:04:05"), last)
		}
	})
	if err != nil {
		return fmt.Errorf("ошибка подписки на изменения: %w", err)
	}
	defer sub.Close()

	interval := app.Config().SyncInterval
	fmt.Printf("Автосинхронизация каждые %v. Ctrl+C для выхода.\n", interval)

	if _, err := app.Engine().SyncBidirectional(ctx); err != nil {
		color.Yellow("⚠️  Ошибка синхронизации: %v", err)
	}
	app.Engine().StartAutoSync(ctx, interval)

	stats := app.Engine().Stats()
	fmt.Printf("\nВсего синхронизаций: %d, отправлено: %d, получено: %d\n",
		stats.TotalSyncs, stats.TotalUploaded, stats.TotalDownloaded)
	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&pullOnly, "pull", false, "только загрузить данные с сервера")
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "показать статус синхронизации")
	SyncCmd.Flags().BoolVarP(&watch, "watch", "w", false, "синхронизировать по таймеру до прерывания")
}
