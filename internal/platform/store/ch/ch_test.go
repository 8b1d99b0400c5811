package ch

import (
	"context"
	"testing"

	"eventcatalog/internal/platform/testkit"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

func TestBuildClientInfo(t *testing.T) {
	info := BuildClientInfo("", " api ")
	if len(info.Products) != 4 {
		t.Fatalf("products %d", len(info.Products))
	}
	if info.Products[0].Name != "eventcatalog" {
		t.Fatalf("default app name %q", info.Products[0].Name)
	}
	if info.Products[1].Version != "api" {
		t.Fatalf("role %q", info.Products[1].Version)
	}
}

func TestOpenBadDSN(t *testing.T) {
	testkit.Swap(t, &openConn, func(*clickhouse.Options) (driver.Conn, error) {
		t.Fatal("open should not be reached")
		return nil, nil
	})
	if _, err := Open(context.Background(), Config{URL: "://nope"}); err == nil {
		t.Fatal("expected dsn error")
	}
}
