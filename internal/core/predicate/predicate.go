// Package predicate is a small persistence neutral boolean expression tree
// listing code builds it, repos render it to SQL and tests evaluate it in memory
package predicate

import "time"

// Expr is a predicate node
type Expr interface{ expr() }

type trueExpr struct{}

// True matches everything
var True Expr = trueExpr{}

// Eq matches Field == Value
type Eq struct {
	Field string
	Value any
}

// In matches Field equal to any of Values; no values matches nothing
type In struct {
	Field  string
	Values []any
}

// Op is a comparison operator
type Op string

const (
	GE Op = ">="
	GT Op = ">"
	LE Op = "<="
	LT Op = "<"
)

// Cmp matches Field Op Value
type Cmp struct {
	Field string
	Op    Op
	Value any
}

// Contains matches a case insensitive substring of a text field
type Contains struct {
	Field string
	Sub   string
}

// Related matches when association Assoc has a member named exactly Name
type Related struct {
	Assoc string
	Name  string
}

// IsNull matches a missing or null field
type IsNull struct {
	Field string
}

// Not negates X
type Not struct {
	X Expr
}

// And matches when every child matches; empty And matches everything
type And []Expr

// Or matches when any child matches; empty Or matches nothing
type Or []Expr

func (trueExpr) expr() {}
func (Eq) expr()       {}
func (In) expr()       {}
func (Cmp) expr()      {}
func (Contains) expr() {}
func (Related) expr()  {}
func (IsNull) expr()   {}
func (Not) expr()      {}
func (And) expr()      {}
func (Or) expr()       {}

// AllOf conjoins xs, flattening nested And and dropping True and nil
// it returns True for no terms and the term itself for one
func AllOf(xs ...Expr) Expr {
	var out And
	for _, x := range xs {
		switch v := x.(type) {
		case nil, trueExpr:
		case And:
			inner := AllOf(v...)
			if flat, ok := inner.(And); ok {
				out = append(out, flat...)
			} else if inner != True {
				out = append(out, inner)
			}
		default:
			out = append(out, x)
		}
	}
	switch len(out) {
	case 0:
		return True
	case 1:
		return out[0]
	}
	return out
}

// AnyOf disjoins xs, dropping nil; any True child makes the whole thing True
func AnyOf(xs ...Expr) Expr {
	var out Or
	for _, x := range xs {
		switch x.(type) {
		case nil:
		case trueExpr:
			return True
		default:
			out = append(out, x)
		}
	}
	return out
}

// Since is Cmp{field >= t}
func Since(field string, t time.Time) Expr { return Cmp{Field: field, Op: GE, Value: t} }

// Before is Cmp{field < t}
func Before(field string, t time.Time) Expr { return Cmp{Field: field, Op: LT, Value: t} }

// Between is the half open window [from, to)
func Between(field string, from, to time.Time) Expr {
	return And{Since(field, from), Before(field, to)}
}
