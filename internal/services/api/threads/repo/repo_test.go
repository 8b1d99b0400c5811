package repo

import (
	"context"
	"strings"
	"testing"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/visibility"
	"eventcatalog/internal/platform/store/storetest"
	"eventcatalog/internal/platform/testkit"
)

func TestListPopular(t *testing.T) {
	f := filters.Set{filters.KeyPopular: "1", filters.KeyCategory: "Market"}
	q := listing.Query{
		Where:   visibility.DefaultPolicy().Scope(filters.Threads.Build(f), visibility.Anonymous()),
		Order:   filters.ThreadSort(f, nil),
		Page:    1,
		PerPage: 25,
	}
	db := storetest.New().Push([]any{int64(1)}).Push([]any{
		int64(2), "Gear", "gear", "Market", 40, 1, int64(0), testkit.Date(2024, 2, 1, 0, 0), nil,
	})
	items, total, err := NewPG().Bind(db).List(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || items[0].PostsCount != 40 || items[0].LastPostAt != nil {
		t.Fatalf("got %d %+v", total, items)
	}
	page := db.Calls()[1].SQL
	if !strings.Contains(page, "thread_category = $1") || !strings.Contains(page, "order by posts_count desc, id asc") {
		t.Fatalf("page sql:\n%s", page)
	}
}
