package msgraph

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestGetCalendarView_Paging(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Prefer"); got != `outlook.timezone="Europe/Berlin"` {
			t.Errorf("Prefer header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"value":[{"id":"b","subject":"Retro","showAs":"busy"}]}`)
			return
		}
		if r.URL.Query().Get("startDateTime") == "" {
			t.Error("missing startDateTime")
		}
		fmt.Fprintf(w, `{"value":[{"id":"a","subject":"Planning","start":{"dateTime":"2026-02-27T09:00:00.0000000","timeZone":"Europe/Berlin"}}],"@odata.nextLink":"%s/next?page=2"}`, srv.URL)
	}))
	defer srv.Close()

	c := &Client{httpClient: srv.Client(), baseURL: srv.URL}
	from := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	events, err := c.GetCalendarView(context.Background(), from, from.AddDate(0, 0, 1), "Europe/Berlin")
	if err != nil {
		t.Fatalf("GetCalendarView: %v", err)
	}
	if len(events) != 2 || events[0].Subject != "Planning" || events[1].ID != "b" {
		t.Fatalf("events = %+v", events)
	}
	if events[0].Start.DateTime != "2026-02-27T09:00:00.0000000" {
		t.Errorf("start = %q", events[0].Start.DateTime)
	}
}

func TestGetCalendarView_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := &Client{httpClient: srv.Client(), baseURL: srv.URL}
	if _, err := c.GetCalendarView(context.Background(), time.Now(), time.Now(), ""); err == nil {
		t.Fatal("expected error for 401")
	}
}

func TestTokenStore(t *testing.T) {
	store := NewTokenStore(t.TempDir())

	tok, err := store.Load()
	if err != nil || tok != nil {
		t.Fatalf("Load on empty store = %v, %v; want nil, nil", tok, err)
	}

	want := &oauth2.Token{AccessToken: "abc", RefreshToken: "def", TokenType: "Bearer"}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AccessToken != "abc" || got.RefreshToken != "def" {
		t.Errorf("Load = %+v", got)
	}
	if filepath.Base(filepath.Dir(store.Path)) != "auth" {
		t.Errorf("token path %q not under auth/", store.Path)
	}
}
