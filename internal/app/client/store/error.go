package store

import "errors"

// ErrMissingID возвращается Upsert для записи без id.
var ErrMissingID = errors.New("record id is not set")
