package cmd

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePeriods(t *testing.T) {
	got, err := parsePeriods(" 5, 10,,20")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{5, 10, 20}, got); diff != "" {
		t.Errorf("parsePeriods() mismatch (-want +got):\n%s", diff)
	}
	for _, s := range []string{"", "ten", ","} {
		if _, err := parsePeriods(s); err == nil {
			t.Errorf("parsePeriods(%q) succeeded, want error", s)
		}
	}
}

func TestParseValues(t *testing.T) {
	fields, err := readFields(strings.NewReader("200 210.5\n190\t220\n"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := parseValues(fields)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{200, 210.5, 190, 220}, got); diff != "" {
		t.Errorf("parseValues() mismatch (-want +got):\n%s", diff)
	}
	if _, err := parseValues([]string{"1", "x"}); err == nil {
		t.Error("parseValues(x) succeeded, want error")
	}
}
