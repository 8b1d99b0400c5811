// Package repo provides postgres access for forum threads
package repo

import (
	"context"

	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/predicate"
	"eventcatalog/internal/modkit/repokit"
	"eventcatalog/internal/services/api/threads/domain"
)

// Repo is the minimal persistence surface for threads
type Repo interface {
	List(ctx context.Context, q listing.Query) ([]domain.Thread, int, error)
}

// Schema maps thread fields to columns
var Schema = predicate.Schema{
	Columns: map[string]string{
		"id":              "id",
		"name":            "name",
		"thread_category": "thread_category",
		"posts_count":     "posts_count",
		"visibility":      "visibility",
		"created_by":      "created_by",
		"created_at":      "created_at",
		"last_post_at":    "last_post_at",
	},
}

var source = repokit.Source{
	Select: `select id, name, slug, thread_category, posts_count, visibility,
coalesce(created_by, 0), created_at, last_post_at`,
	From:    "from threads",
	Schema:  Schema,
	Dialect: predicate.Postgres,
	Name:    "threads.list",
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) List(ctx context.Context, q listing.Query) ([]domain.Thread, int, error) {
	st, err := source.Render(q)
	if err != nil {
		return nil, 0, err
	}
	return repokit.FetchPage(ctx, r.q, st, func(row repokit.Row) (domain.Thread, error) {
		var t domain.Thread
		err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Category, &t.PostsCount, &t.Visibility,
			&t.CreatedBy, &t.CreatedAt, &t.LastPostAt)
		return t, err
	})
}
