package payment

import "time"

// Payment одна оплата участника. Оплаты только добавляются, исправить можно
// лишь сумму последней.
type Payment struct {
	ID        int64
	CreatedAt time.Time
	Amount    float64
	MemberID  int64
}
