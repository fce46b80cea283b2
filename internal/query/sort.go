// Package query resolves filter, sort and page parameters into a
// deterministic store query and evaluates such queries over in-memory
// task snapshots.
package query

import (
	"fmt"
	"strings"

	"github.com/dmehra2102/todotracker/internal/domain"
)

var sortableFields = map[string]domain.SortField{
	string(domain.SortByPriority): domain.SortByPriority,
	string(domain.SortByDueDate):  domain.SortByDueDate,
}

var sortDirections = map[string]domain.SortDirection{
	string(domain.SortAscending):  domain.SortAscending,
	string(domain.SortDescending): domain.SortDescending,
}

// ParseSort parses "field:direction[,field:direction...]". Blank input yields
// an empty spec. Directions are matched case-sensitively.
func ParseSort(raw string) (domain.SortSpec, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), ",")
	if raw == "" {
		return nil, nil
	}

	tokens := strings.Split(raw, ",")
	spec := make(domain.SortSpec, 0, len(tokens))

	for _, token := range tokens {
		parts := strings.Split(token, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: malformed sort token %q, expected field:direction", domain.ErrInvalidSort, token)
		}

		field := strings.TrimSpace(parts[0])
		direction := strings.TrimSpace(parts[1])
		if field == "" || direction == "" {
			return nil, fmt.Errorf("%w: malformed sort token %q, expected field:direction", domain.ErrInvalidSort, token)
		}

		order, err := resolveOrder(field, direction)
		if err != nil {
			return nil, err
		}
		spec = append(spec, order)
	}

	return spec, nil
}

// ValidateSortSpec checks a spec built outside ParseSort.
func ValidateSortSpec(spec domain.SortSpec) error {
	for _, o := range spec {
		if _, err := resolveOrder(string(o.Field), string(o.Direction)); err != nil {
			return err
		}
	}
	return nil
}

func resolveOrder(field, direction string) (domain.SortOrder, error) {
	f, ok := sortableFields[field]
	if !ok {
		return domain.SortOrder{}, fmt.Errorf("%w: unknown sort field %q (valid: priority, dueDate)", domain.ErrInvalidSort, field)
	}

	d, ok := sortDirections[direction]
	if !ok {
		return domain.SortOrder{}, fmt.Errorf("%w: unknown sort direction %q (valid: asc, desc)", domain.ErrInvalidSort, direction)
	}

	return domain.SortOrder{Field: f, Direction: d}, nil
}
