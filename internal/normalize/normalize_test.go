package normalize

import (
	"testing"

	"TCGEventSync/internal/model"
)

func TestShopName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"Joe's Cards", "JOESCARDS"},
		{"JOES CARDS", "JOESCARDS"},
		{"  joe's   cards  ", "JOESCARDS"},
		{"Critical Hit Games & Collectibles", "CRITICALHITGAME"},
		{"Critical Hit Games", "CRITICALHITGAME"},
		{"", ""},
	}
	for _, c := range cases {
		if got := ShopName(c.raw); got != c.want {
			t.Errorf("ShopName(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestShopNameLength(t *testing.T) {
	t.Parallel()

	got := ShopName("An Extremely Long Store Name That Keeps Going")
	if len(got) != shopKeyLen {
		t.Fatalf("expected key truncated to %d chars, got %q (%d)", shopKeyLen, got, len(got))
	}
}

func TestIsPremierType(t *testing.T) {
	t.Parallel()

	premier := []string{"League Cup", "LEAGUE CHALLENGE", "Cup - Special Event", "challenge"}
	for _, s := range premier {
		if !IsPremierType(s) {
			t.Errorf("IsPremierType(%q) = false, want true", s)
		}
	}
	notPremier := []string{"League Night", "Pre-Release", "Video Game Tournament", ""}
	for _, s := range notPremier {
		if IsPremierType(s) {
			t.Errorf("IsPremierType(%q) = true, want false", s)
		}
	}
}

func TestCategory(t *testing.T) {
	t.Parallel()

	if got := Category("League Cup"); got != model.CategoryCup {
		t.Errorf("Category(League Cup) = %s", got)
	}
	if got := Category("LEAGUE CHALLENGE"); got != model.CategoryChallenge {
		t.Errorf("Category(LEAGUE CHALLENGE) = %s", got)
	}
	if got := Category("Store Championship Cup"); got != model.CategoryCup {
		t.Errorf("Category(Store Championship Cup) = %s", got)
	}
}

func TestLongFormDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"Tuesday, January 13, 2026", "2026-01-13"},
		{"January 13, 2026", "2026-01-13"},
		{"march 5, 2026", "2026-03-05"},
		{"Saturday, December 6, 2025", "2025-12-06"},
		{"sometime in January", ""},
		{"Jan 13, 2026", ""}, // 缩写月名不认
		{"January 45, 2026", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := LongFormDate(c.raw); got != c.want {
			t.Errorf("LongFormDate(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestTo12Hour(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"14:30", "2:30 PM"},
		{"09:05", "9:05 AM"},
		{"00:15", "12:15 AM"},
		{"12:00", "12:00 PM"},
		{"23:59", "11:59 PM"},
		{"6:30 PM", "6:30 PM"},
		{"10:00 am", "10:00 am"},
		{"", ""},
	}
	for _, c := range cases {
		if got := To12Hour(c.raw); got != c.want {
			t.Errorf("To12Hour(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestDedupKeyCrossSource(t *testing.T) {
	t.Parallel()

	// 爬虫端与定位服务端对同一场赛事写法不同，归一化键必须一致
	a := DedupKey("2026-01-13", "Joe's Cards", model.CategoryCup)
	b := DedupKey("2026-01-13", "JOES CARDS", model.CategoryCup)
	if a != b {
		t.Fatalf("expected identical keys, got %q vs %q", a, b)
	}
	c := DedupKey("2026-01-13", "Joe's Cards", model.CategoryChallenge)
	if a == c {
		t.Fatalf("category must be part of the key, got identical %q", a)
	}
}
