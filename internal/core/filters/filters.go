// Package filters turns named filter values into a conjunction of predicate clauses
package filters

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"eventcatalog/internal/core/predicate"
)

// Recognized filter keys
const (
	KeyName     = "filter_name"
	KeyTag      = "filter_tag"
	KeyVenue    = "filter_venue"
	KeyRelated  = "filter_related"
	KeyType     = "filter_type"
	KeyAction   = "filter_action"
	KeyUser     = "filter_user"
	KeyCategory = "filter_category"
	KeyPopular  = "filter_popular"
	KeyRPP      = "filter_rpp"
	KeySortBy   = "filter_sort_by"
	KeySortDir  = "filter_sort_order"
)

// Set maps filter names to values; a sanitized Set never holds a blank value
type Set map[string]string

// Normalize trims and NFC normalizes a filter value
func Normalize(v string) string {
	return norm.NFC.String(strings.TrimSpace(v))
}

// Sanitize returns a normalized copy of s without blank values
func Sanitize(s Set) Set {
	out := make(Set, len(s))
	for k, v := range s {
		if v = Normalize(v); v != "" {
			out[k] = v
		}
	}
	return out
}

// Get returns the normalized value for key, "" when blank or absent
func (s Set) Get(key string) string { return Normalize(s[key]) }

// Has reports a non blank value for key
func (s Set) Has(key string) bool { return s.Get(key) != "" }

// MaxRPP bounds filter_rpp; it matches the calendar feed's page size
const MaxRPP = 10000

// RPP reads filter_rpp; only positive integers count, larger values are capped at MaxRPP
func RPP(s Set) (int, bool) {
	v := s.Get(KeyRPP)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return min(n, MaxRPP), true
}

// Ucfirst upper cases the first rune only
func Ucfirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Clause builds the predicate for one filter key
type Clause struct {
	Key   string
	Build func(v string) predicate.Expr
}

// Builder is an ordered clause table; order fixes the shape of the output
type Builder struct {
	clauses []Clause
}

// NewBuilder returns a Builder over clauses in order
func NewBuilder(clauses ...Clause) *Builder {
	return &Builder{clauses: clauses}
}

// Keys lists the recognized keys in clause order
func (b *Builder) Keys() []string {
	out := make([]string, len(b.clauses))
	for i, c := range b.clauses {
		out[i] = c.Key
	}
	return out
}

// Build ANDs one clause per recognized non blank key; s is not modified
// nothing recognized yields predicate.True
func (b *Builder) Build(s Set) predicate.Expr {
	parts := make([]predicate.Expr, 0, len(b.clauses))
	for _, c := range b.clauses {
		v := s.Get(c.Key)
		if v == "" || c.Build == nil {
			continue
		}
		if e := c.Build(v); e != nil {
			parts = append(parts, e)
		}
	}
	return predicate.AllOf(parts...)
}

func contains(field string) func(string) predicate.Expr {
	return func(v string) predicate.Expr { return predicate.Contains{Field: field, Sub: v} }
}

func equals(field string) func(string) predicate.Expr {
	return func(v string) predicate.Expr { return predicate.Eq{Field: field, Value: v} }
}

func related(assoc string) func(string) predicate.Expr {
	return func(v string) predicate.Expr { return predicate.Related{Assoc: assoc, Name: Ucfirst(v)} }
}

// Events filters events and series
var Events = NewBuilder(
	Clause{Key: KeyName, Build: contains("name")},
	Clause{Key: KeyTag, Build: related("tags")},
	Clause{Key: KeyVenue, Build: equals("venue_name")},
	Clause{Key: KeyRelated, Build: related("entities")},
)

// Activity filters the activity feed
var Activity = NewBuilder(
	Clause{Key: KeyName, Build: contains("object_name")},
	Clause{Key: KeyType, Build: contains("object_table")},
	Clause{Key: KeyAction, Build: equals("action")},
	Clause{Key: KeyUser, Build: equals("user_name")},
)

// Threads filters forum threads; filter_popular changes ordering only, see ThreadSort
var Threads = NewBuilder(
	Clause{Key: KeyName, Build: equals("name")},
	Clause{Key: KeyCategory, Build: equals("thread_category")},
	Clause{Key: KeyPopular},
)

// ThreadSort returns posts_count desc when filter_popular is set, def otherwise
func ThreadSort(s Set, def []predicate.SortKey) []predicate.SortKey {
	if s.Has(KeyPopular) {
		return []predicate.SortKey{predicate.Desc("posts_count")}
	}
	return def
}
