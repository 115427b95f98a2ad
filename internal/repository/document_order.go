package repository

import (
	"fmt"
	"sort"
	"strings"

	domainRepo "go-hospital-internment/internal/domain/repository"
)

// SortDocuments orders documents by a field, "-field" for descending.
// Documents missing the field keep their relative order at the end.
func SortDocuments(docs []domainRepo.Document, orderBy string) {
	field, desc := parseOrderBy(orderBy)
	if field == "" {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		a, okA := docs[i].Fields[field]
		b, okB := docs[j].Fields[field]
		if !okA || !okB {
			return okA && !okB
		}
		if desc {
			return compareValues(b, a) < 0
		}
		return compareValues(a, b) < 0
	})
}

func parseOrderBy(orderBy string) (string, bool) {
	orderBy = strings.TrimSpace(orderBy)
	if strings.HasPrefix(orderBy, "-") {
		return strings.TrimPrefix(orderBy, "-"), true
	}
	return orderBy, false
}

func compareValues(a, b interface{}) int {
	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
