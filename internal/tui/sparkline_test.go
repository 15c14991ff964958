package tui

import (
	"slices"
	"testing"
	"unicode/utf8"
)

func TestLoadHistory_KeepsNewestSamples(t *testing.T) {
	h := NewLoadHistory(3)
	for _, v := range []float64{10, 20, 30, 40} {
		h.Add(v)
	}
	if got, want := h.Samples(), []float64{20, 30, 40}; !slices.Equal(got, want) {
		t.Errorf("Samples() = %v, want %v", got, want)
	}
	if h.Last() != 40 {
		t.Errorf("Last() = %v, want 40", h.Last())
	}
}

func TestLoadHistory_ClampsSamples(t *testing.T) {
	h := NewLoadHistory(4)
	h.Add(-5)
	h.Add(150)
	if got, want := h.Samples(), []float64{0, 100}; !slices.Equal(got, want) {
		t.Errorf("Samples() = %v, want %v", got, want)
	}
}

func TestLoadHistory_EmptyAndClear(t *testing.T) {
	h := NewLoadHistory(0)
	if h.Last() != 0 || h.Len() != 0 {
		t.Fatal("new history should be empty")
	}
	h.Add(12)
	h.Add(13) // limit was raised to 1
	if h.Len() != 1 || h.Last() != 13 {
		t.Errorf("expected single sample 13, got %v", h.Samples())
	}
	h.Clear()
	if h.Len() != 0 {
		t.Errorf("Clear left %d samples", h.Len())
	}
}

func TestLoadHistory_SetLimit(t *testing.T) {
	h := NewLoadHistory(5)
	for v := range 5 {
		h.Add(float64(v * 10))
	}
	h.SetLimit(2)
	if got, want := h.Samples(), []float64{30, 40}; !slices.Equal(got, want) {
		t.Errorf("after shrink Samples() = %v, want %v", got, want)
	}
	h.SetLimit(10)
	h.Add(50)
	if h.Len() != 3 {
		t.Errorf("after grow Len() = %d, want 3", h.Len())
	}
}

func TestLoadHistory_SamplesIsACopy(t *testing.T) {
	h := NewLoadHistory(2)
	h.Add(10)
	s := h.Samples()
	s[0] = 99
	if h.Last() != 10 {
		t.Error("mutating Samples() result changed the history")
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		width   int
		want    string
	}{
		{"empty", nil, 0, ""},
		{"extremes", []float64{0, 100}, 0, "▁█"},
		{"midpoint", []float64{50}, 0, "▄"},
		{"padded", []float64{100}, 3, "  █"},
		{"truncated to newest", []float64{0, 0, 100, 100}, 2, "██"},
		{"padding only", nil, 2, "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sparkline(tt.samples, tt.width); got != tt.want {
				t.Errorf("Sparkline(%v, %d) = %q, want %q", tt.samples, tt.width, got, tt.want)
			}
		})
	}
}

func TestSparkline_ConstantWidth(t *testing.T) {
	h := NewLoadHistory(8)
	for i := range 12 {
		h.Add(float64(i * 9))
		if n := utf8.RuneCountInString(Sparkline(h.Samples(), 8)); n != 8 {
			t.Fatalf("after %d samples width = %d, want 8", i+1, n)
		}
	}
}
