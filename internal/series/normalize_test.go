package series

import (
	"strconv"
	"testing"

	"econdash/internal/model"
)

func fv(v float64) *float64 { return &v }

func TestNormalize_FiltersAndSorts(t *testing.T) {
	rows := []Observation{
		{Date: "2022", Value: fv(3.0)},
		{Date: "2020", Value: nil},      // missing value dropped
		{Date: "garbage", Value: fv(9)}, // unparseable year dropped
		{Date: "2019", Value: fv(1.0)},
		{Date: "2021", Value: fv(2.0)},
	}

	got := Normalize(rows, model.YearsBack)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Year <= got[i-1].Year {
			t.Errorf("not strictly ascending at %d: %d after %d", i, got[i].Year, got[i-1].Year)
		}
	}
	if got[0].Year != 2019 || got[2].Year != 2022 {
		t.Errorf("year range = %d..%d, want 2019..2022", got[0].Year, got[2].Year)
	}
}

func TestNormalize_WindowKeepsMostRecent(t *testing.T) {
	var rows []Observation
	for y := 2000; y <= 2023; y++ {
		rows = append(rows, Observation{Date: strconv.Itoa(y), Value: fv(float64(y))})
	}

	got := Normalize(rows, 12)

	if len(got) != 12 {
		t.Fatalf("len = %d, want 12", len(got))
	}
	if got[0].Year != 2012 {
		t.Errorf("oldest retained year = %d, want 2012", got[0].Year)
	}
	if got[11].Year != 2023 {
		t.Errorf("newest retained year = %d, want 2023", got[11].Year)
	}
}

func TestNormalize_ShortInputKeptWhole(t *testing.T) {
	rows := []Observation{
		{Date: "2021", Value: fv(1)},
		{Date: "2022", Value: fv(2)},
	}
	if got := Normalize(rows, 12); len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	if got := Normalize(nil, 12); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
	if got := Normalize([]Observation{}, 12); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestParseYear(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2023", 2023, true},
		{"2023Q1", 2023, true}, // quarterly dates keep the leading year
		{" 1999 ", 1999, true},
		{"", 0, false},
		{"Q1", 0, false},
	}
	for _, c := range cases {
		got, ok := parseYear(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("parseYear(%q) = %d,%v want %d,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
