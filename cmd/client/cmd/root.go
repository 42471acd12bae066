package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"clubmembers/cmd/client/cmd/types"
	"clubmembers/internal/app/client"
	"clubmembers/internal/app/client/config"
	"clubmembers/internal/utils/logger"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	cfgFile    string
	debug      bool
	jsonOutput bool
	serverURL  string

	logOutput io.WriteCloser
)

var rootCmd = &cobra.Command{
	Use:   "clubmembers",
	Short: "ClubMembers - учет участников клуба с синхронизацией",
	Long: `ClubMembers ведет локальную базу участников клуба: сроки членства,
оплаты и аватары.

Все изменения сначала сохраняются локально и сразу отправляются на сервер.
Если сервер недоступен, команда sync догонит его позже.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Переопределяем настройки из флагов командной строки
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	log := newLogger(cfg)

	app, err := client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	ctx := context.WithValue(cmd.Context(), types.ClientAppKey, app)
	ctx = context.WithValue(ctx, types.OptionsKey, types.Options{JSON: jsonOutput, Debug: debug})
	cmd.SetContext(ctx)
	return nil
}

// newLogger пишет в stderr в отладочном режиме, иначе в ротируемый файл,
// чтобы не смешивать логи с выводом команд.
func newLogger(cfg *config.Config) *slog.Logger {
	if debug {
		return logger.NewWithOutput("local", os.Stderr)
	}

	logOutput = &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     28,
	}

	env := cfg.Env
	if cfg.IsLocal() {
		env = "dev"
	}
	return logger.NewWithOutput(env, logOutput)
}

func closeApp(cmd *cobra.Command, _ []string) error {
	if app, err := types.App(cmd); err == nil {
		if err := app.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Ошибка закрытия хранилища: %v\n", err)
		}
	}
	if logOutput != nil {
		return logOutput.Close()
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл (yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "писать отладочный лог в stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера host:port")
}
