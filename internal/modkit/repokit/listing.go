package repokit

import (
	"context"
	"strings"

	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/predicate"
	"eventcatalog/internal/platform/store"
)

// Source is a listing's SQL shape: the select list, the from clause and its field schema
type Source struct {
	Select  string
	From    string
	Schema  predicate.Schema
	Dialect predicate.Dialect
	// Name labels storage errors, e.g. "events.list"
	Name    string
}

// Statement is a rendered listing page plus its count query
type Statement struct {
	Op        string
	Count     string
	CountArgs []any
	Page      string
	PageArgs  []any
}

// Render turns q into count and page statements over src
// rows sharing every sort key fall back to id so pages never overlap
func (src Source) Render(q listing.Query) (Statement, error) {
	r := predicate.NewRenderer(src.Schema, src.Dialect)
	where, err := r.Where(q.Where)
	if err != nil {
		return Statement{}, err
	}
	countArgs := append([]any(nil), r.Args()...)

	var b strings.Builder
	b.WriteString(src.Select)
	b.WriteString("\n")
	b.WriteString(src.From)
	b.WriteString("\nwhere ")
	b.WriteString(where)
	if ob := predicate.OrderBy(withTiebreak(q.Order, src.Schema), src.Schema); ob != "" {
		b.WriteString("\n")
		b.WriteString(ob)
	}
	b.WriteString("\nlimit ")
	b.WriteString(r.Arg(q.Limit()))
	b.WriteString(" offset ")
	b.WriteString(r.Arg(q.Offset()))

	return Statement{
		Op:        src.Name,
		Count:     src.countSelect() + "\n" + src.From + "\nwhere " + where,
		CountArgs: countArgs,
		Page:      b.String(),
		PageArgs:  r.Args(),
	}, nil
}

// countSelect yields an int64 column on both dialects
func (src Source) countSelect() string {
	if src.Dialect == predicate.ClickHouse {
		return "select toInt64(count())"
	}
	return "select count(*)"
}

func withTiebreak(keys []predicate.SortKey, s predicate.Schema) []predicate.SortKey {
	if _, ok := s.Column("id"); !ok {
		return keys
	}
	for _, k := range keys {
		if k.Field == "id" {
			return keys
		}
	}
	return append(append([]predicate.SortKey(nil), keys...), predicate.Asc("id"))
}

// Reader is the query surface both Postgres and ClickHouse offer
type Reader = store.Querier

// FetchPage runs st against q, scanning each row with scan
func FetchPage[T any](ctx context.Context, q Reader, st Statement, scan func(Row) (T, error)) ([]T, int, error) {
	total, err := count(ctx, q, st)
	if err != nil {
		return nil, 0, Classify(err, st.Op)
	}
	if total == 0 {
		return []T{}, 0, nil
	}
	out, err := store.Many(ctx, q, scan, st.Page, st.PageArgs...)
	if err != nil {
		return nil, 0, Classify(err, st.Op)
	}
	if out == nil {
		out = []T{}
	}
	return out, total, nil
}

func count(ctx context.Context, q Reader, st Statement) (int, error) {
	rs, err := q.Query(ctx, st.Count, st.CountArgs...)
	if err != nil {
		return 0, err
	}
	defer rs.Close()
	if !rs.Next() {
		return 0, rs.Err()
	}
	var n int64
	if err := rs.Scan(&n); err != nil {
		return 0, err
	}
	return int(n), rs.Err()
}
