package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/predicate"
	perr "eventcatalog/internal/platform/errors"
	"eventcatalog/internal/platform/store/storetest"
)

var things = Source{
	Select: "select t.id, t.name",
	From:   "from things t",
	Schema: predicate.Schema{Columns: map[string]string{"id": "t.id", "name": "t.name"}},
	Name:   "things.list",
}

func TestRenderPostgres(t *testing.T) {
	q := listing.Query{
		Where:   predicate.Eq{Field: "name", Value: "x"},
		Order:   []predicate.SortKey{predicate.Desc("name")},
		Page:    3,
		PerPage: 10,
	}
	st, err := things.Render(q)
	if err != nil {
		t.Fatal(err)
	}
	if st.Count != "select count(*)\nfrom things t\nwhere t.name = $1" {
		t.Fatalf("count: %q", st.Count)
	}
	want := "select t.id, t.name\nfrom things t\nwhere t.name = $1\norder by t.name desc, t.id asc\nlimit $2 offset $3"
	if st.Page != want {
		t.Fatalf("page:\n%s\nwant:\n%s", st.Page, want)
	}
	if len(st.CountArgs) != 1 || len(st.PageArgs) != 3 || st.PageArgs[1] != 10 || st.PageArgs[2] != 20 {
		t.Fatalf("args: %v %v", st.CountArgs, st.PageArgs)
	}
}

func TestRenderClickHouse(t *testing.T) {
	src := things
	src.Dialect = predicate.ClickHouse
	st, err := src.Render(listing.Query{Order: []predicate.SortKey{predicate.Asc("id")}, Page: 1, PerPage: 5})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(st.Count, "select toInt64(count())") || !strings.Contains(st.Count, "where 1 = 1") {
		t.Fatalf("count: %q", st.Count)
	}
	if !strings.HasSuffix(st.Page, "order by t.id asc\nlimit ? offset ?") {
		t.Fatalf("page: %q", st.Page)
	}
}

func TestRenderUnknownField(t *testing.T) {
	if _, err := things.Render(listing.Query{Where: predicate.Eq{Field: "nope", Value: 1}}); err == nil {
		t.Fatal("want error")
	}
}

func TestFetchPage(t *testing.T) {
	ctx := context.Background()
	db := storetest.New().Push([]any{int64(2)}).Push([]any{int64(1), "a"}, []any{int64(2), "b"})
	st, _ := things.Render(listing.Query{Page: 1, PerPage: 10})

	type thing struct {
		ID   int64
		Name string
	}
	items, total, err := FetchPage(ctx, db, st, func(r Row) (thing, error) {
		var x thing
		return x, r.Scan(&x.ID, &x.Name)
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(items) != 2 || items[1].Name != "b" {
		t.Fatalf("got %d %+v", total, items)
	}
}

func TestFetchPageEmptySkipsQuery(t *testing.T) {
	db := storetest.New().Push([]any{int64(0)})
	st, _ := things.Render(listing.Query{Page: 1, PerPage: 10})
	items, total, err := FetchPage(context.Background(), db, st, func(Row) (int, error) { return 0, nil })
	if err != nil || total != 0 || items == nil || len(items) != 0 {
		t.Fatalf("got %v %d %v", items, total, err)
	}
	if n := len(db.Calls()); n != 1 {
		t.Fatalf("calls: %d", n)
	}
}

func TestFetchPageLabelsErrors(t *testing.T) {
	db := storetest.New().PushErr(errors.New("conn reset"))
	st, _ := things.Render(listing.Query{Page: 1, PerPage: 10})
	_, _, err := FetchPage(context.Background(), db, st, func(Row) (int, error) { return 0, nil })
	e, ok := perr.As(err)
	if !ok || e.Code() != perr.ErrorCodeDB || e.Op() != "things.list" {
		t.Fatalf("err = %v", err)
	}
}
