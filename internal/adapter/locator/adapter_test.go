package locator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"TCGEventSync/internal/config"
	"TCGEventSync/internal/model"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestFetchIssuesBothCategoryRequests(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		var filter model.LocatorFilter
		if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
			t.Errorf("decode filter: %v", err)
		}
		if filter.Cup == filter.Challenge {
			t.Errorf("expected exactly one category enabled, got cup=%v challenge=%v", filter.Cup, filter.Challenge)
		}
		if filter.LeagueNight || filter.Tournament || filter.PreRelease || filter.VideoGame {
			t.Errorf("unrelated event kinds must be disabled: %+v", filter)
		}
		if filter.CountryCode != "US" || len(filter.Regions) != 1 || filter.Regions[0] != "California" {
			t.Errorf("unexpected scope: %+v", filter)
		}

		name := "League Challenge"
		if filter.Cup {
			name = "League Cup"
		}
		resp := model.LocatorResponse{
			Events: []model.RawLocatorRecord{{GUID: "g1", Type: name, Shop: "Some Store", Date: "2026-01-13"}},
			Total:  1,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	a := NewLocatorAdapter(&config.ClientConfig{BaseURL: srv.URL, Timeout: 5}, testLogger())
	records, err := a.Fetch(context.Background(), model.QueryLocation{RadiusMiles: 50}, "US", "California")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 upstream requests, got %d", calls)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 merged records, got %d", len(records))
	}
}

func TestFetchIsolatesCategoryFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var filter model.LocatorFilter
		_ = json.NewDecoder(r.Body).Decode(&filter)
		if filter.Cup {
			// cup 路挂掉，challenge 路不受影响
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp := model.LocatorResponse{
			Events: []model.RawLocatorRecord{{GUID: "g2", Type: "League Challenge", Shop: "Other Store", Date: "2026-02-01"}},
			Total:  1,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	a := NewLocatorAdapter(&config.ClientConfig{BaseURL: srv.URL, Timeout: 5}, testLogger())
	records, err := a.Fetch(context.Background(), model.QueryLocation{RadiusMiles: 25}, "US", "Oregon")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record from the surviving category, got %d", len(records))
	}
	if records[0].Type != "League Challenge" {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestFetchUnreachableUpstream(t *testing.T) {
	t.Parallel()

	a := NewLocatorAdapter(&config.ClientConfig{BaseURL: "http://127.0.0.1:1", Timeout: 1}, testLogger())
	records, err := a.Fetch(context.Background(), model.QueryLocation{RadiusMiles: 50}, "US", "Nevada")
	if err != nil {
		t.Fatalf("upstream outage must degrade, not error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty result, got %d records", len(records))
	}
}
