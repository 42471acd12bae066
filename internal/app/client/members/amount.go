package members

import (
	"regexp"
	"strconv"
	"strings"
)

var amountNoise = regexp.MustCompile(`[^\d.,-]`)

// ParseAmount разбирает сумму, введенную человеком: "$1 200,50", "50 ₽", "12.5".
// Пустая или неразборчивая строка дает ok=false.
func ParseAmount(raw string) (float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}
	cleaned := strings.ReplaceAll(amountNoise.ReplaceAllString(raw, ""), ",", ".")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// EnsureAvatarKey кладет ключ аватара в пространство владельца: "<uid>/<file>".
func EnsureAvatarKey(key, uid string) string {
	if strings.TrimSpace(uid) == "" {
		return key
	}
	normalized := strings.TrimLeft(key, "/")
	if strings.HasPrefix(normalized, uid+"/") {
		return normalized
	}
	return uid + "/" + normalized
}
