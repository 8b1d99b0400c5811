package predicate

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Record is anything a predicate can be evaluated against
type Record interface {
	// Value returns a field; ok is false when the field is absent
	Value(field string) (any, bool)
	// Related returns the member names of an association
	Related(assoc string) []string
}

// Eval evaluates e against rec
func Eval(e Expr, rec Record) bool {
	switch x := e.(type) {
	case nil, trueExpr:
		return true
	case Eq:
		v, ok := rec.Value(x.Field)
		if !ok || isNil(v) {
			return false
		}
		c, ok := Compare(v, x.Value)
		return ok && c == 0
	case In:
		for _, want := range x.Values {
			if Eval(Eq{Field: x.Field, Value: want}, rec) {
				return true
			}
		}
		return false
	case Cmp:
		v, ok := rec.Value(x.Field)
		if !ok || isNil(v) {
			return false
		}
		c, ok := Compare(v, x.Value)
		if !ok {
			return false
		}
		switch x.Op {
		case GE:
			return c >= 0
		case GT:
			return c > 0
		case LE:
			return c <= 0
		case LT:
			return c < 0
		}
		return false
	case Contains:
		v, ok := rec.Value(x.Field)
		if !ok {
			return false
		}
		s, ok := v.(string)
		if !ok {
			return false
		}
		fold := cases.Fold()
		return strings.Contains(fold.String(s), fold.String(x.Sub))
	case Related:
		for _, name := range rec.Related(x.Assoc) {
			if name == x.Name {
				return true
			}
		}
		return false
	case IsNull:
		v, ok := rec.Value(x.Field)
		return !ok || isNil(v)
	case Not:
		return !Eval(x.X, rec)
	case And:
		for _, c := range x {
			if !Eval(c, rec) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range x {
			if Eval(c, rec) {
				return true
			}
		}
		return false
	}
	return false
}

func isNil(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case *time.Time:
		return t == nil
	case *string:
		return t == nil
	case *int64:
		return t == nil
	}
	return false
}

// Compare orders a against b; ok is false when the two are not comparable
// integers of any width compare with each other, times by instant
func Compare(a, b any) (int, bool) {
	a, b = deref(a), deref(b)
	if ai, ok := asInt(a); ok {
		if bi, ok := asInt(b); ok {
			return cmp3(ai, bi), true
		}
		if bf, ok := b.(float64); ok {
			return cmpFloat(float64(ai), bf), true
		}
		return 0, false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case float64:
		if bi, ok := asInt(b); ok {
			return cmpFloat(av, float64(bi)), true
		}
		bv, ok := b.(float64)
		return cmpFloat(av, bv), ok
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !av {
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func deref(v any) any {
	switch t := v.(type) {
	case *time.Time:
		if t != nil {
			return *t
		}
	case *string:
		if t != nil {
			return *t
		}
	case *int64:
		if t != nil {
			return *t
		}
	}
	return v
}

// asInt widens signed integers and named int types that expose Int()
func asInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case interface{ Int() int }:
		return int64(t.Int()), true
	}
	return 0, false
}

func cmp3(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
