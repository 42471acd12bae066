package member

import "time"

// Newer - единственное правило разрешения конфликтов: побеждает строго более
// поздняя метка. При равенстве остается существующая версия.
func Newer(candidate, existing time.Time) bool {
	return candidate.After(existing)
}

// Merge решает, заменяет ли incoming локальную запись local.
// Возвращает итоговую запись и признак замены. При замене локальный
// PaymentAmount переносится в новую версию.
func Merge(local *Member, incoming Member) (Member, bool) {
	if local == nil {
		incoming.PaymentAmount = nil
		return incoming, true
	}
	if !Newer(incoming.UpdatedAt, local.UpdatedAt) {
		return *local, false
	}
	incoming.PaymentAmount = local.PaymentAmount
	return incoming, true
}
