package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"clubmembers/internal/app/client"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type ctxKey string

const (
	ClientAppKey ctxKey = "client_app"
	OptionsKey   ctxKey = "options"
)

// Options глобальные флаги, нужные подкомандам.
type Options struct {
	JSON  bool
	Debug bool
}

var errNoApp = errors.New("приложение не инициализировано")

// App достает приложение из контекста команды.
func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, errNoApp
	}
	return app, nil
}

func OptionsFrom(cmd *cobra.Command) Options {
	opts, _ := cmd.Context().Value(OptionsKey).(Options)
	return opts
}

// RequireAuth возвращает приложение, если пользователь вошел.
func RequireAuth(cmd *cobra.Command) (*client.App, error) {
	app, err := App(cmd)
	if err != nil {
		return nil, err
	}
	if !app.IsAuthenticated() {
		return nil, fmt.Errorf("требуется аутентификация. Выполните: clubmembers auth login")
	}
	return app, nil
}

// ReadPassword читает пароль без эха.
func ReadPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("ошибка чтения пароля: %w", err)
	}
	return string(password), nil
}

func PrintJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
