package query

import (
	"cmp"
	"strings"

	"github.com/dmehra2102/todotracker/internal/domain"
)

// CompareFunc orders two tasks the way slices.SortStableFunc expects.
type CompareFunc func(a, b *domain.Task) int

type sortKey struct {
	compare    CompareFunc
	descending bool
}

var fieldSelectors = map[domain.SortField]CompareFunc{
	domain.SortByPriority: comparePriority,
	domain.SortByDueDate:  compareDueDate,
}

// Comparator folds the sort spec into a single compare function. Each key is
// reversed as a whole for descending order, so a missing due date sorts
// first ascending and last descending. Creation time and then ID break any
// remaining ties, which also gives the default order for an empty spec.
func Comparator(spec domain.SortSpec) (CompareFunc, error) {
	if err := ValidateSortSpec(spec); err != nil {
		return nil, err
	}

	keys := make([]sortKey, 0, len(spec)+2)
	for _, o := range spec {
		keys = append(keys, sortKey{
			compare:    fieldSelectors[o.Field],
			descending: o.Direction == domain.SortDescending,
		})
	}
	keys = append(keys,
		sortKey{compare: compareCreatedAt},
		sortKey{compare: compareID},
	)

	return func(a, b *domain.Task) int {
		for _, k := range keys {
			c := k.compare(a, b)
			if k.descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	}, nil
}

func comparePriority(a, b *domain.Task) int {
	return cmp.Compare(a.Priority, b.Priority)
}

// compareDueDate treats a missing due date as the lowest value.
func compareDueDate(a, b *domain.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return -1
	case b.DueDate == nil:
		return 1
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}

func compareCreatedAt(a, b *domain.Task) int {
	return a.CreatedAt.Compare(b.CreatedAt)
}

func compareID(a, b *domain.Task) int {
	return strings.Compare(a.ID, b.ID)
}
