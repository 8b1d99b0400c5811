// Package visibility scopes listings to what the acting identity may see
package visibility

import (
	"strconv"

	"eventcatalog/internal/core/predicate"
)

// Level is the stored visibility of a record
type Level int

const (
	Public   Level = 1
	Guarded  Level = 2
	Hidden   Level = 3
	Unlisted Level = 4
)

// Fields the predicate refers to
const (
	FieldVisibility = "visibility"
	FieldCreator    = "created_by"
)

var names = map[Level]string{
	Public:   "public",
	Guarded:  "guarded",
	Hidden:   "hidden",
	Unlisted: "unlisted",
}

// Int lets predicate.Compare treat Level as an integer
func (l Level) Int() int { return int(l) }

func (l Level) String() string {
	if n, ok := names[l]; ok {
		return n
	}
	return "unknown(" + strconv.Itoa(int(l)) + ")"
}

// Identity is the acting user, possibly nobody
type Identity struct {
	id      int64
	present bool
}

// Anonymous is the absent identity
func Anonymous() Identity { return Identity{} }

// As is the identity of user id
func As(id int64) Identity { return Identity{id: id, present: true} }

// Present reports a signed in identity
func (i Identity) Present() bool { return i.present }

// ID returns the user id and whether there is one
func (i Identity) ID() (int64, bool) { return i.id, i.present }

// Policy holds the tunable parts of the visibility rule
type Policy struct {
	// UnlistedListed keeps unlisted records in listings for everyone
	UnlistedListed bool
}

// DefaultPolicy lists unlisted records
func DefaultPolicy() Policy { return Policy{UnlistedListed: true} }

func is(l Level) predicate.Expr { return predicate.Eq{Field: FieldVisibility, Value: int(l)} }

// ForContext is the disjunction of everything id may see
// levels bind as plain ints so every driver encodes them the same way
func (p Policy) ForContext(id Identity) predicate.Expr {
	or := predicate.Or{is(Public)}
	if uid, ok := id.ID(); ok {
		or = append(or,
			is(Guarded),
			predicate.Eq{Field: FieldCreator, Value: uid},
		)
	}
	if p.UnlistedListed {
		or = append(or, is(Unlisted))
	}
	return or
}

// Scope ANDs the visibility disjunction onto base at the top level
func (p Policy) Scope(base predicate.Expr, id Identity) predicate.Expr {
	return predicate.AllOf(base, p.ForContext(id))
}
