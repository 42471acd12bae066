package logger

import (
	"io"
	"os"

	"golang.org/x/exp/slog"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// New создает логгер для окружения env с выводом в stdout.
func New(env string) *slog.Logger {
	return NewWithOutput(env, os.Stdout)
}

// NewWithOutput создает логгер для окружения env с выводом в out.
// Неизвестное окружение трактуется как local.
func NewWithOutput(env string, out io.Writer) *slog.Logger {
	switch env {
	case envDev:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return newPrettySlog(out)
	}
}

func setupPrettySlog() *slog.Logger {
	return newPrettySlog(os.Stdout)
}

func newPrettySlog(out io.Writer) *slog.Logger {
	opts := PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
	}

	return slog.New(opts.NewPrettyHandler(out))
}

// Err упаковывает ошибку в атрибут "error".
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
