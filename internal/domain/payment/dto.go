package payment

import (
	"time"

	"clubmembers/internal/domain/member"
)

// Remote - представление строки таблицы payments.
type Remote struct {
	ID        int64   `json:"id,omitempty"`
	CreatedAt string  `json:"created_at,omitempty" example:"2024-01-01T10:00:00Z"`
	Amount    float64 `json:"amount"`
	MemberID  int64   `json:"member_id"`
}

func ToRemote(p Payment) Remote {
	r := Remote{
		ID:       p.ID,
		Amount:   p.Amount,
		MemberID: p.MemberID,
	}
	if !p.CreatedAt.IsZero() {
		r.CreatedAt = member.FormatTimestamp(p.CreatedAt)
	}
	return r
}

// FromRemote разбирает оплату; пустой created_at остается нулевым.
func FromRemote(r Remote) (Payment, error) {
	p := Payment{
		ID:       r.ID,
		Amount:   r.Amount,
		MemberID: r.MemberID,
	}
	if r.CreatedAt != "" {
		ts, err := member.ParseTimestamp(r.CreatedAt)
		if err != nil {
			return Payment{}, err
		}
		p.CreatedAt = ts
	}
	return p, nil
}

func (p Payment) withDefaults(now time.Time) Payment {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = member.Stamp(now)
	}
	return p
}
