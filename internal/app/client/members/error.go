package members

import "errors"

// ErrPushFailed запись сохранена локально, но сервер ее не принял.
// Следующая двусторонняя синхронизация отправит ее повторно.
var ErrPushFailed = errors.New("record saved locally but not pushed")
