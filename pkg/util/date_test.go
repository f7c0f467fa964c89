package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseDateISO(t *testing.T) {
	got, ok := ParseDate("2018-03-09")
	if !ok {
		t.Fatalf("expected ok")
	}
	if !got.Equal(time.Date(2018, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseDateUS(t *testing.T) {
	got, ok := ParseDate("03/09/2018")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Day() != 9 || got.Month() != time.March {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseDateUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseDate(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "  ", "yesterday"} {
		if _, ok := ParseDate(s); ok {
			t.Fatalf("expected %q to fail", s)
		}
	}
}

func TestDayKey(t *testing.T) {
	a := time.Date(2020, 1, 2, 15, 30, 0, 0, time.UTC)
	b := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	if !DayKey(a).Equal(b) {
		t.Fatalf("expected %v, got %v", b, DayKey(a))
	}
}

func TestFormatDate(t *testing.T) {
	if FormatDate(time.Time{}) != "" {
		t.Fatalf("zero time should format empty")
	}
	if s := FormatDate(time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC)); s != "2019-12-31" {
		t.Fatalf("unexpected %q", s)
	}
}
