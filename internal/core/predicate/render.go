package predicate

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects placeholder style and a few function spellings
type Dialect int

const (
	// Postgres uses $n placeholders and ilike
	Postgres Dialect = iota
	// ClickHouse uses ? placeholders and positionCaseInsensitiveUTF8
	ClickHouse
)

// Schema maps logical fields to SQL
type Schema struct {
	// Columns maps a field to a column expression, e.g. "start_at" -> "e.start_at"
	Columns map[string]string
	// Assocs maps an association to an exists() template with one %s for the name placeholder
	Assocs map[string]string
}

// Column resolves a field; ok is false for unknown fields
func (s Schema) Column(field string) (string, bool) {
	c, ok := s.Columns[field]
	return c, ok
}

// Renderer turns expressions into SQL text plus positional args
// one Renderer per statement so placeholder numbering stays consistent
type Renderer struct {
	schema  Schema
	dialect Dialect
	args    []any
}

// NewRenderer returns a renderer for one statement
func NewRenderer(s Schema, d Dialect) *Renderer { return &Renderer{schema: s, dialect: d} }

// Args returns the bound args so far
func (r *Renderer) Args() []any { return r.args }

// Arg binds v and returns its placeholder
func (r *Renderer) Arg(v any) string {
	r.args = append(r.args, v)
	if r.dialect == ClickHouse {
		return "?"
	}
	return "$" + strconv.Itoa(len(r.args))
}

// Where renders e; unknown fields are an error
func (r *Renderer) Where(e Expr) (string, error) {
	switch x := e.(type) {
	case nil, trueExpr:
		return r.truth(true), nil
	case Eq:
		col, err := r.col(x.Field)
		if err != nil {
			return "", err
		}
		return col + " = " + r.Arg(x.Value), nil
	case In:
		if len(x.Values) == 0 {
			return r.truth(false), nil
		}
		col, err := r.col(x.Field)
		if err != nil {
			return "", err
		}
		ph := make([]string, len(x.Values))
		for i, v := range x.Values {
			ph[i] = r.Arg(v)
		}
		return col + " in (" + strings.Join(ph, ", ") + ")", nil
	case Cmp:
		col, err := r.col(x.Field)
		if err != nil {
			return "", err
		}
		switch x.Op {
		case GE, GT, LE, LT:
		default:
			return "", fmt.Errorf("predicate: bad operator %q", x.Op)
		}
		return col + " " + string(x.Op) + " " + r.Arg(x.Value), nil
	case Contains:
		col, err := r.col(x.Field)
		if err != nil {
			return "", err
		}
		if r.dialect == ClickHouse {
			return "positionCaseInsensitiveUTF8(" + col + ", " + r.Arg(x.Sub) + ") > 0", nil
		}
		return col + " ilike " + r.Arg("%"+escapeLike(x.Sub)+"%"), nil
	case Related:
		tmpl, ok := r.schema.Assocs[x.Assoc]
		if !ok {
			return "", fmt.Errorf("predicate: unknown association %q", x.Assoc)
		}
		return fmt.Sprintf(tmpl, r.Arg(x.Name)), nil
	case IsNull:
		col, err := r.col(x.Field)
		if err != nil {
			return "", err
		}
		return col + " is null", nil
	case Not:
		inner, err := r.Where(x.X)
		if err != nil {
			return "", err
		}
		return "not (" + inner + ")", nil
	case And:
		return r.join(x, " and ", true)
	case Or:
		if len(x) == 0 {
			return r.truth(false), nil
		}
		return r.join(x, " or ", false)
	}
	return "", fmt.Errorf("predicate: unsupported node %T", e)
}

// join parenthesizes every Or and every And with more than one child
func (r *Renderer) join(xs []Expr, sep string, isAnd bool) (string, error) {
	if isAnd {
		switch len(xs) {
		case 0:
			return r.truth(true), nil
		case 1:
			return r.Where(xs[0])
		}
	}
	parts := make([]string, 0, len(xs))
	for _, x := range xs {
		s, err := r.Where(x)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func (r *Renderer) col(field string) (string, error) {
	c, ok := r.schema.Column(field)
	if !ok {
		return "", fmt.Errorf("predicate: unknown field %q", field)
	}
	return c, nil
}

func (r *Renderer) truth(b bool) string {
	switch {
	case r.dialect == ClickHouse && b:
		return "1 = 1"
	case r.dialect == ClickHouse:
		return "1 = 0"
	case b:
		return "true"
	}
	return "false"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// Render is a one shot Where for callers that bind nothing else
func Render(e Expr, s Schema, d Dialect) (string, []any, error) {
	r := NewRenderer(s, d)
	sql, err := r.Where(e)
	return sql, r.Args(), err
}
