package listing

import (
	"math"
	"reflect"
	"testing"

	"eventcatalog/internal/core/predicate"
)

func TestPages(t *testing.T) {
	cases := []struct{ total, rpp, want int }{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{12, 5, 3},
		{7, 0, 7},
		{5, math.MaxInt, 1},
		{math.MaxInt, math.MaxInt, 1},
		{math.MaxInt, 2, math.MaxInt/2 + 1},
	}
	for _, tc := range cases {
		if got := Pages(tc.total, tc.rpp); got != tc.want {
			t.Errorf("Pages(%d,%d)=%d want %d", tc.total, tc.rpp, got, tc.want)
		}
	}
}

func TestOffsetAndClamp(t *testing.T) {
	if Offset(3, 5) != 10 || Offset(0, 5) != 0 || Offset(-2, 8) != 0 {
		t.Fatal("offset")
	}
}

func TestOffsetSaturates(t *testing.T) {
	cases := []struct{ page, rpp, want int }{
		{math.MaxInt, 10, math.MaxInt},
		{math.MaxInt/10 + 1, 10, math.MaxInt / 10 * 10},
		{math.MaxInt/10 + 2, 10, math.MaxInt},
		{2, math.MaxInt, math.MaxInt},
	}
	for _, tc := range cases {
		if got := Offset(tc.page, tc.rpp); got != tc.want || got < 0 {
			t.Errorf("Offset(%d,%d)=%d want %d", tc.page, tc.rpp, got, tc.want)
		}
	}
}

func TestQueryCopies(t *testing.T) {
	base := Query{Where: predicate.Eq{Field: "a", Value: 1}, Order: []predicate.SortKey{predicate.Asc("name")}, Page: 2, PerPage: 8}
	n := base.Narrow(predicate.Eq{Field: "b", Value: 2}).OrderBy(predicate.Desc("start_at")).AtPage(1)
	if _, ok := base.Where.(predicate.Eq); !ok || base.Order[0].Field != "name" || base.Page != 2 {
		t.Fatalf("base mutated: %+v", base)
	}
	if and, ok := n.Where.(predicate.And); !ok || len(and) != 2 {
		t.Fatalf("narrow: %#v", n.Where)
	}
	if n.Offset() != 0 || base.Offset() != 8 {
		t.Fatal("offsets")
	}
	if (Query{}).Limit() != 1 {
		t.Fatal("limit floor")
	}
}

func TestCompose(t *testing.T) {
	vis := predicate.Or{predicate.Eq{Field: "visibility", Value: 1}}
	got := Compose(predicate.True, predicate.Eq{Field: "name", Value: "x"}, vis)
	want := predicate.And{predicate.Eq{Field: "name", Value: "x"}, vis}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v", got)
	}
}
