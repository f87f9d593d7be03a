package domain

import "strings"

// SortField selects the account attribute used to order listings.
type SortField string

// SortOrder is the direction of an account listing.
type SortOrder string

const (
	SortByID      SortField = "id"
	SortByName    SortField = "name"
	SortByBalance SortField = "balance"

	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// AccountSort describes how account listings are ordered.
// Ties on Field are always broken by ID ascending.
type AccountSort struct {
	Field SortField
	Order SortOrder
}

// DefaultAccountSort orders by id ascending.
var DefaultAccountSort = AccountSort{Field: SortByID, Order: SortAsc}

// ParseAccountSort interprets raw query parameters leniently: unknown fields
// fall back to id and unknown orders fall back to ascending. Both values are
// matched case-insensitively.
func ParseAccountSort(field, order string) AccountSort {
	s := DefaultAccountSort

	switch SortField(strings.ToLower(strings.TrimSpace(field))) {
	case SortByName:
		s.Field = SortByName
	case SortByBalance:
		s.Field = SortByBalance
	}

	if SortOrder(strings.ToLower(strings.TrimSpace(order))) == SortDesc {
		s.Order = SortDesc
	}

	return s
}

// Descending reports whether the primary key is ordered high to low.
func (s AccountSort) Descending() bool {
	return s.Order == SortDesc
}

// Less reports whether a sorts before b under s.
func (s AccountSort) Less(a, b *Account) bool {
	var cmp int
	switch s.Field {
	case SortByName:
		cmp = strings.Compare(a.Name, b.Name)
	case SortByBalance:
		cmp = a.Balance.Cmp(b.Balance)
	default:
		cmp = compareInt64(a.ID, b.ID)
	}

	if s.Descending() {
		cmp = -cmp
	}
	if cmp != 0 {
		return cmp < 0
	}
	return a.ID < b.ID
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
