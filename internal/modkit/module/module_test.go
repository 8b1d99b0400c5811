package module

import (
	"context"
	"strings"
	"testing"

	phttp "eventcatalog/internal/platform/net/http"
)

type lister interface{ List(context.Context) []string }

type seriesLister struct{}

func (seriesLister) List(context.Context) []string { return []string{"jazz night"} }

type bundle struct {
	Count  int
	Series lister
	hidden lister
}

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) MountRoutes(phttp.Router) {}
func (m fakeModule) Ports() any               { return m.ports }
func (m fakeModule) Name() string             { return m.name }

func TestPortsOf(t *testing.T) {
	var nilBundle *bundle
	cases := []struct {
		name  string
		m     Module
		found bool
	}{
		{"nil module", nil, false},
		{"nil ports", fakeModule{name: "meta"}, false},
		{"direct", fakeModule{ports: seriesLister{}}, true},
		{"struct field", fakeModule{ports: bundle{Series: seriesLister{}}}, true},
		{"pointer to struct", fakeModule{ports: &bundle{Series: seriesLister{}}}, true},
		{"nil pointer", fakeModule{ports: nilBundle}, false},
		{"unexported field only", fakeModule{ports: bundle{hidden: seriesLister{}}}, false},
		{"no match", fakeModule{ports: bundle{Count: 3}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PortsOf[lister](tc.m)
			if ok != tc.found {
				t.Fatalf("ok = %v, want %v", ok, tc.found)
			}
			if ok && got.List(context.Background())[0] != "jazz night" {
				t.Fatalf("wrong port %v", got)
			}
		})
	}
}

func TestMustPortsOfPanicsWithName(t *testing.T) {
	defer func() {
		r := recover()
		s, _ := r.(string)
		if !strings.Contains(s, "threads") {
			t.Fatalf("panic = %v", r)
		}
	}()
	MustPortsOf[lister](fakeModule{name: "threads", ports: bundle{}})
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("series", seriesLister{})
	Register("events", bundle{Count: 1})
	Register("meta", nil)

	if got := strings.Join(Names(), ","); got != "events,series" {
		t.Fatalf("names = %s", got)
	}
	if _, ok := PortsAs[lister]("series"); !ok {
		t.Fatal("series port missing")
	}
	if _, ok := PortsAs[lister]("events"); ok {
		t.Fatal("events bundle is not a lister")
	}
	if _, ok := PortsAs[lister]("activity"); ok {
		t.Fatal("unregistered module found")
	}

	Reset()
	if len(Names()) != 0 {
		t.Fatalf("names after reset = %v", Names())
	}
}
