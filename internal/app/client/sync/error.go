package sync

import "errors"

var (
	// ErrNoAuthUser нет владельца для отправки: ни в записи, ни в сессии.
	ErrNoAuthUser = errors.New("no authenticated user to own the record")
	// ErrSyncInProgress синхронизация уже выполняется, запрос отброшен.
	ErrSyncInProgress = errors.New("sync already in progress")
)
