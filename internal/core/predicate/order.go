package predicate

import (
	"sort"
	"strings"
)

// SortKey orders by one field
type SortKey struct {
	Field string
	Desc  bool
}

// Asc is an ascending key
func Asc(field string) SortKey { return SortKey{Field: field} }

// Desc is a descending key
func Desc(field string) SortKey { return SortKey{Field: field, Desc: true} }

// Direction is "asc" or "desc"
func (k SortKey) Direction() string {
	if k.Desc {
		return "desc"
	}
	return "asc"
}

// ParseSort builds a key from user input; fields outside allowed and unknown directions fall back to def
func ParseSort(field, dir string, def SortKey, allowed ...string) SortKey {
	k := def
	for _, a := range allowed {
		if a == field {
			k.Field = field
			break
		}
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		k.Desc = false
	case "desc":
		k.Desc = true
	}
	return k
}

// OrderBy renders "order by ..." for the keys whose fields the schema knows; empty when none
func OrderBy(keys []SortKey, s Schema) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		col, ok := s.Column(k.Field)
		if !ok {
			continue
		}
		parts = append(parts, col+" "+k.Direction())
	}
	if len(parts) == 0 {
		return ""
	}
	return "order by " + strings.Join(parts, ", ")
}

// SortRecords stably orders recs by keys; incomparable values keep their order
func SortRecords[R Record](recs []R, keys []SortKey) {
	sort.SliceStable(recs, func(i, j int) bool {
		for _, k := range keys {
			a, _ := recs[i].Value(k.Field)
			b, _ := recs[j].Value(k.Field)
			if sa, ok := a.(string); ok {
				if sb, ok := b.(string); ok {
					a, b = strings.ToLower(sa), strings.ToLower(sb)
				}
			}
			c, ok := Compare(a, b)
			if !ok || c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
