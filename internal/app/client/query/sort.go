package query

import (
	"fmt"
	"slices"
	"strings"

	"clubmembers/internal/domain/member"
)

type SortBy string

const (
	SortByName       SortBy = "name"
	SortByCreated    SortBy = "created"
	SortByExpiration SortBy = "expiration"
)

// ParseSortBy разбирает ключ сортировки; пустая строка дает SortByExpiration.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByExpiration:
		return SortByExpiration, nil
	case SortByName:
		return SortByName, nil
	case SortByCreated:
		return SortByCreated, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Sort упорядочивает list на месте. Порядок полный: равные по ключу записи
// упорядочены по id, поэтому соседние страницы не перекрываются.
// Записи без срока считаются самыми поздними.
func Sort(list []member.Member, by SortBy, ascending bool) {
	cmp := compareBy(by)
	slices.SortFunc(list, func(a, b member.Member) int {
		c := cmp(a, b)
		if c == 0 {
			c = compareID(a, b)
		}
		if !ascending {
			c = -c
		}
		return c
	})
}

func compareBy(by SortBy) func(a, b member.Member) int {
	switch by {
	case SortByName:
		return func(a, b member.Member) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortByCreated:
		return compareID
	default:
		return compareExpiration
	}
}

func compareID(a, b member.Member) int {
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

func compareExpiration(a, b member.Member) int {
	switch {
	case a.Expiration == nil && b.Expiration == nil:
		return 0
	case a.Expiration == nil:
		return 1
	case b.Expiration == nil:
		return -1
	}
	return a.Expiration.Compare(*b.Expiration)
}
