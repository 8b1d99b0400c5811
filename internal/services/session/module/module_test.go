package module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"eventcatalog/internal/core/prefs"
	modkit "eventcatalog/internal/modkit"
	"eventcatalog/internal/modkit/httpkit"
	kitmod "eventcatalog/internal/modkit/module"
	"eventcatalog/internal/platform/config"
	phttp "eventcatalog/internal/platform/net/http"
	"eventcatalog/internal/platform/testkit"
)

func newServer(t *testing.T) (http.Handler, modkit.Module) {
	t.Helper()
	t.Setenv("CORE_SESSION_SECRET", "test")
	m := New(modkit.Deps{Cfg: config.New()})
	ports := m.Ports().(Ports)

	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Use(httpkit.CommonStack(httpkit.StackOptions{Sessions: ports.Sessions})...)
	m.MountRoutes(r)
	return mux, m
}

func TestCurrentIssuesSession(t *testing.T) {
	h, _ := newServer(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatal("want a session cookie")
	}
	var env struct {
		Data struct {
			SessionID string `json:"session_id"`
			SignedIn  bool   `json:"signed_in"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data.SessionID == "" || env.Data.SignedIn {
		t.Fatalf("got %+v", env.Data)
	}
}

func TestForget(t *testing.T) {
	h, _ := newServer(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session/forget", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	testkit.MustContain(t, strings.Join(rec.Header().Values("Set-Cookie"), "\n"), "Max-Age=0")
}

func TestPorts(t *testing.T) {
	_, m := newServer(t)
	if m.Name() != "session" {
		t.Fatalf("name %q", m.Name())
	}
	if _, ok := kitmod.PortsOf[prefs.Backend](m); !ok {
		t.Fatal("prefs port missing")
	}
}
