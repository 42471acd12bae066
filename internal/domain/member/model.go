package member

import (
	"strings"
	"time"
)

// Member запись участника клуба.
//
// PaymentAmount хранится только локально: в удаленной таблице members такого
// поля нет, поэтому при слиянии оно переносится из локальной копии.
type Member struct {
	ID            int64
	Name          string
	Email         *string
	Phone         *string
	Expiration    *time.Time
	AvatarURL     *string
	PaymentAmount *float64
	UpdatedAt     time.Time
	UID           *string
	IsDeleted     bool
}

// Owner возвращает идентификатор владельца или пустую строку.
func (m Member) Owner() string {
	if m.UID == nil {
		return ""
	}
	return *m.UID
}

// IsExpired сообщает, истек ли срок на дату today.
// Запись с датой окончания, равной today, считается активной.
func (m Member) IsExpired(today time.Time) bool {
	if m.Expiration == nil {
		return false
	}
	return DateOf(*m.Expiration).Before(Today(today))
}

// IsActive сообщает, что запись не удалена и срок не истек.
func (m Member) IsActive(today time.Time) bool {
	return !m.IsDeleted && !m.IsExpired(today)
}

// Matches проверяет вхождение pattern в имя, email или телефон без учета регистра.
func (m Member) Matches(pattern string) bool {
	p := strings.ToLower(pattern)
	if strings.Contains(strings.ToLower(m.Name), p) {
		return true
	}
	if m.Email != nil && strings.Contains(strings.ToLower(*m.Email), p) {
		return true
	}
	if m.Phone != nil && strings.Contains(strings.ToLower(*m.Phone), p) {
		return true
	}
	return false
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Today возвращает календарную дату now в его часовом поясе, приведенную к полуночи UTC.
func Today(now time.Time) time.Time {
	y, mo, d := now.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// DateOf отбрасывает время, оставляя дату в UTC.
func DateOf(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// Stamp нормализует метку изменения: UTC с точностью до микросекунд,
// как ее хранит Postgres.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// StringPtr возвращает nil для пустой строки.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
