package avatar

import "time"

const (
	Bucket     = "avatars"
	MaxSize    = 5 << 20
	DefaultTTL = 30 * time.Minute
	MaxTTL     = 7 * 24 * time.Hour
)

// Object содержимое объекта в бакете.
type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Data        []byte
	UpdatedAt   time.Time
}
