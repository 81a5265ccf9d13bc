package service

import (
	"testing"

	"TCGEventSync/internal/model"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func ptr(f float64) *float64 { return &f }

// 约 8 英里：纬度每度约 69.1 英里，0.116 度 ≈ 8 英里
const (
	originLat = 34.0
	originLng = -118.0
)

func TestCombineScraperWinsOnDuplicateKey(t *testing.T) {
	t.Parallel()

	scraper := []model.RawScraperRecord{{
		ID:   "s1",
		Type: "League Cup",
		Name: "Joe's League Cup",
		Date: "Tuesday, January 13, 2026",
		Shop: "Joe's Cards",
	}}
	locator := []model.RawLocatorRecord{{
		GUID:      "l1",
		Type:      "League Cup",
		Name:      "League Cup at Joes",
		Date:      "2026-01-13",
		Shop:      "JOES CARDS",
		Latitude:  ptr(originLat + 0.116),
		Longitude: ptr(originLng),
	}}

	m := NewMergeService(testLogger())
	events := m.Combine(scraper, locator, &model.Coordinates{Latitude: originLat, Longitude: originLng}, 50)

	if len(events) != 1 {
		t.Fatalf("expected exactly one merged event, got %d: %+v", len(events), events)
	}
	e := events[0]
	if e.Source != model.SourceScraper {
		t.Fatalf("scraper version must win on key collision, got source %s", e.Source)
	}
	if e.Category != model.CategoryCup || e.Date != "2026-01-13" {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestCombineRadiusExcludesDistantLocatorEvents(t *testing.T) {
	t.Parallel()

	locator := []model.RawLocatorRecord{
		{
			GUID: "near", Type: "League Challenge", Date: "2026-01-20", Shop: "Near Store",
			Latitude: ptr(originLat + 0.116), Longitude: ptr(originLng), // ~8 英里
		},
		{
			GUID: "far", Type: "League Challenge", Date: "2026-01-20", Shop: "Far Store",
			Latitude: ptr(originLat + 1.74), Longitude: ptr(originLng), // ~120 英里
		},
	}

	m := NewMergeService(testLogger())
	events := m.Combine(nil, locator, &model.Coordinates{Latitude: originLat, Longitude: originLng}, 50)

	if len(events) != 1 {
		t.Fatalf("expected distant event excluded, got %d: %+v", len(events), events)
	}
	if events[0].Shop != "Near Store" {
		t.Fatalf("wrong survivor: %+v", events[0])
	}
	if events[0].DistanceMiles == nil || *events[0].DistanceMiles > 50 {
		t.Fatalf("surviving event must satisfy distance <= radius: %+v", events[0])
	}
}

func TestCombineScraperNeverRadiusFiltered(t *testing.T) {
	t.Parallel()

	// 爬虫记录无坐标，无论查询原点在哪都保留
	scraper := []model.RawScraperRecord{{
		ID: "s1", Type: "League Challenge", Date: "January 20, 2026", Shop: "Remote Region Store",
	}}
	m := NewMergeService(testLogger())
	events := m.Combine(scraper, nil, &model.Coordinates{Latitude: originLat, Longitude: originLng}, 10)

	if len(events) != 1 {
		t.Fatalf("scraper-sourced events must never be excluded by distance, got %d", len(events))
	}
	if events[0].DistanceMiles != nil {
		t.Fatalf("event without coordinates must not carry a distance: %+v", events[0])
	}
}

func TestCombineDropsUnparseableDate(t *testing.T) {
	t.Parallel()

	scraper := []model.RawScraperRecord{
		{ID: "bad", Type: "League Cup", Date: "sometime in January", Shop: "Joe's Cards"},
		{ID: "good", Type: "League Cup", Date: "Tuesday, January 13, 2026", Shop: "Other Store"},
	}
	m := NewMergeService(testLogger())
	events := m.Combine(scraper, nil, nil, 50)

	if len(events) != 1 {
		t.Fatalf("unparseable date must drop the record silently, got %d", len(events))
	}
	if events[0].Shop != "Other Store" {
		t.Fatalf("wrong survivor: %+v", events[0])
	}
}

func TestCombineRejectsNonPremierTypes(t *testing.T) {
	t.Parallel()

	scraper := []model.RawScraperRecord{
		{ID: "s1", Type: "League Night", Date: "January 13, 2026", Shop: "Joe's Cards"},
	}
	locator := []model.RawLocatorRecord{
		{GUID: "l1", Type: "Video Game Tournament", Date: "2026-01-13", Shop: "Other Store"},
	}
	m := NewMergeService(testLogger())
	if events := m.Combine(scraper, locator, nil, 50); len(events) != 0 {
		t.Fatalf("non-premier types must be rejected, got %+v", events)
	}
}

func TestCombineSortsByDateThenDistance(t *testing.T) {
	t.Parallel()

	locator := []model.RawLocatorRecord{
		{GUID: "feb-far", Type: "League Cup", Date: "2026-02-01", Shop: "Feb Far",
			Latitude: ptr(originLat + 0.43), Longitude: ptr(originLng)}, // ~30 英里
		{GUID: "feb-near", Type: "League Challenge", Date: "2026-02-01", Shop: "Feb Near",
			Latitude: ptr(originLat + 0.116), Longitude: ptr(originLng)}, // ~8 英里
		{GUID: "jan", Type: "League Cup", Date: "2026-01-13", Shop: "Jan Store",
			Latitude: ptr(originLat + 0.2), Longitude: ptr(originLng)},
	}
	m := NewMergeService(testLogger())
	events := m.Combine(nil, locator, &model.Coordinates{Latitude: originLat, Longitude: originLng}, 50)

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Shop != "Jan Store" || events[1].Shop != "Feb Near" || events[2].Shop != "Feb Far" {
		order := []string{events[0].Shop, events[1].Shop, events[2].Shop}
		t.Fatalf("wrong order: %v", order)
	}
}

func TestCombineLocatorTimeFromDatetime(t *testing.T) {
	t.Parallel()

	locator := []model.RawLocatorRecord{{
		GUID: "l1", Type: "League Cup", Date: "2026-01-13", Shop: "Joe's Cards",
		StartDatetime: "2026-01-13T14:30:00",
	}}
	m := NewMergeService(testLogger())
	events := m.Combine(nil, locator, nil, 50)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Time != "2:30 PM" {
		t.Fatalf("expected 12-hour time from combined datetime, got %q", events[0].Time)
	}
}

func TestBuildSummary(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{Source: model.SourceScraper, Shop: "Joe's Cards"},
		{Source: model.SourceLocator, Shop: "JOES CARDS"}, // 同店不同写法，只算一家
		{Source: model.SourceLocator, Shop: "Other Store"},
	}
	got := BuildSummary(events)
	want := model.Summary{Total: 3, ScraperCount: 1, LocatorCount: 2, ShopCount: 2}
	if got != want {
		t.Fatalf("BuildSummary = %+v, want %+v", got, want)
	}
}
