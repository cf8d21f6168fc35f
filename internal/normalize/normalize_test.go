package normalize

import (
	"testing"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "short hex expands", in: "#ABC", want: "#aabbcc"},
		{name: "long hex lowercases", in: "#FFAA00", want: "#ffaa00"},
		{name: "hex with alpha", in: "#FFAA00CC", want: "#ffaa00cc"},
		{name: "zero px collapses", in: "0px", want: "0"},
		{name: "zero percent collapses", in: "0%", want: "0"},
		{name: "zero rem collapses", in: "0rem", want: "0"},
		{name: "zero with fraction collapses", in: "0.0em", want: "0"},
		{name: "nonzero unit kept", in: "10px", want: "10px"},
		{name: "bare decimal two digits", in: "1.5", want: "1.50"},
		{name: "negative decimal", in: "-0.5", want: "-0.50"},
		{name: "integer untouched", in: "3", want: "3"},
		{name: "rgb whitespace stripped", in: "rgb( 1 , 2 , 3 )", want: "rgb(1,2,3)"},
		{name: "rgba whitespace stripped", in: "rgba(255, 0, 0, 0.5)", want: "rgba(255,0,0,0.5)"},
		{name: "keyword untouched", in: "flex", want: "flex"},
		{name: "whitespace trimmed", in: "  red  ", want: "red"},
		{name: "empty", in: "", want: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Value(test.in)
			if got != test.want {
				t.Errorf("Value(%q) = %q, want %q", test.in, got, test.want)
			}
		})
	}
}

func TestValueIdempotent(t *testing.T) {
	inputs := []string{
		"#ABC", "#ffaa00", "0px", "0", "1.5", "1.50", "10px",
		"rgb( 1 , 2 , 3 )", "rgb(1,2,3)", "flex", "repeat(3, 1fr)",
	}
	for _, in := range inputs {
		once := Value(in)
		twice := Value(once)
		if once != twice {
			t.Errorf("Value not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
