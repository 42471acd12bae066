package member

import "time"

// Remote - представление записи в удаленной таблице members.
// Поля payment_amount здесь нет и быть не должно.
type Remote struct {
	ID         int64   `json:"id" doc:"Идентификатор записи"`
	Name       string  `json:"name" minLength:"1"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Expiration *string `json:"expiration,omitempty" example:"2024-06-01" doc:"Дата окончания, YYYY-MM-DD"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	UpdatedAt  string  `json:"updated_at" example:"2024-01-01T10:00:00Z"`
	UID        *string `json:"uid,omitempty"`
	IsDeleted  bool    `json:"is_deleted"`
}

func ToRemote(m Member) Remote {
	r := Remote{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		AvatarURL: m.AvatarURL,
		UpdatedAt: FormatTimestamp(m.UpdatedAt),
		UID:       m.UID,
		IsDeleted: m.IsDeleted,
	}
	if m.Expiration != nil {
		d := FormatDate(*m.Expiration)
		r.Expiration = &d
	}
	return r
}

// FromRemote переводит удаленную запись в локальную модель.
// PaymentAmount всегда nil.
func FromRemote(r Remote) (Member, error) {
	updatedAt, err := ParseTimestamp(r.UpdatedAt)
	if err != nil {
		return Member{}, err
	}

	m := Member{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		AvatarURL: r.AvatarURL,
		UpdatedAt: updatedAt,
		UID:       r.UID,
		IsDeleted: r.IsDeleted,
	}

	if r.Expiration != nil && *r.Expiration != "" {
		exp, err := parseExpiration(*r.Expiration)
		if err != nil {
			return Member{}, err
		}
		m.Expiration = &exp
	}

	return m, nil
}

// Postgres может отдать date как полную метку, берем из нее только дату.
func parseExpiration(s string) (time.Time, error) {
	if d, err := ParseDate(s); err == nil {
		return d, nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return DateOf(t), nil
}
