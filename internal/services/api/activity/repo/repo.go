// Package repo reads the activity feed from postgres or clickhouse
package repo

import (
	"context"

	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/predicate"
	"eventcatalog/internal/modkit/repokit"
	"eventcatalog/internal/services/api/activity/domain"
)

// Repo is the minimal read surface for the feed
type Repo interface {
	List(ctx context.Context, q listing.Query) ([]domain.Activity, int, error)
}

// Schema maps activity fields to columns, the same on both backends
var Schema = predicate.Schema{
	Columns: map[string]string{
		"id":           "id",
		"user_name":    "user_name",
		"object_table": "object_table",
		"object_name":  "object_name",
		"action":       "action",
		"created_at":   "created_at",
	},
}

var pgSource = repokit.Source{
	Select: `select id, coalesce(user_id, 0), user_name, object_table, coalesce(object_id, 0),
object_name, action, message, created_at`,
	From:    "from activities",
	Schema:  Schema,
	Dialect: predicate.Postgres,
	Name:    "activity.list",
}

var chSource = repokit.Source{
	Select: `select id, ifNull(user_id, 0), user_name, object_table, ifNull(object_id, 0),
object_name, action, message, created_at`,
	From:    "from activities",
	Schema:  Schema,
	Dialect: predicate.ClickHouse,
	Name:    "activity.list",
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements Repo over either backend
	queries struct {
		r   repokit.Reader
		src repokit.Source
	}
)

// NewPG returns a binder for the postgres activities table
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{r: q, src: pgSource} }

// NewCH reads the feed from clickhouse
func NewCH(c repokit.Columnar) Repo {
	if c == nil {
		panic("activity repo requires a non nil clickhouse")
	}
	return &queries{r: c, src: chSource}
}

func (q *queries) List(ctx context.Context, lq listing.Query) ([]domain.Activity, int, error) {
	st, err := q.src.Render(lq)
	if err != nil {
		return nil, 0, err
	}
	return repokit.FetchPage(ctx, q.r, st, scan)
}

func scan(row repokit.Row) (domain.Activity, error) {
	var a domain.Activity
	err := row.Scan(&a.ID, &a.UserID, &a.UserName, &a.ObjectTable, &a.ObjectID,
		&a.ObjectName, &a.Action, &a.Message, &a.CreatedAt)
	return a, err
}
