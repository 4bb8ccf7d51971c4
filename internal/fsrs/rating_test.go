package fsrs

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want Rating
	}{
		{"1", Again},
		{"4", Easy},
		{"again", Again},
		{"Hard", Hard},
		{"GOOD", Good},
		{"easy", Easy},
	}
	for _, tt := range tests {
		got, err := ParseRating(tt.in)
		if err != nil {
			t.Errorf("ParseRating(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRating(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseRatingInvalid(t *testing.T) {
	for _, in := range []string{"", "0", "5", "-1", "meh", "2.5"} {
		if _, err := ParseRating(in); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("ParseRating(%q): err = %v, want ErrInvalidRating", in, err)
		}
	}
}

func TestRatingString(t *testing.T) {
	if got := Good.String(); got != "Good" {
		t.Errorf("Good.String() = %q", got)
	}
	if got := Rating(7).String(); got != "Rating(7)" {
		t.Errorf("Rating(7).String() = %q", got)
	}
}

func TestRatingJSON(t *testing.T) {
	data, err := json.Marshal(Hard)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"Hard"` {
		t.Errorf("marshal = %s, want \"Hard\"", data)
	}

	var r Rating
	if err := json.Unmarshal([]byte(`"easy"`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r != Easy {
		t.Errorf("unmarshal = %s, want Easy", r)
	}

	if _, err := json.Marshal(Rating(0)); err == nil {
		t.Error("marshal of invalid rating should fail")
	}
	if err := json.Unmarshal([]byte(`"nope"`), &r); err == nil {
		t.Error("unmarshal of unknown rating should fail")
	}
}

func TestStateZeroValue(t *testing.T) {
	var s State
	if s != New {
		t.Errorf("zero State = %s, want New", s)
	}
	var c Card
	if c.State != New {
		t.Errorf("zero Card state = %s, want New", c.State)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{New, "New"},
		{Learning, "Learning"},
		{Review, "Review"},
		{Relearning, "Relearning"},
		{State(9), "State(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

func TestStateJSON(t *testing.T) {
	data, err := json.Marshal(Relearning)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"Relearning"` {
		t.Errorf("marshal = %s, want \"Relearning\"", data)
	}

	var s State
	if err := json.Unmarshal([]byte(`"Learning"`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != Learning {
		t.Errorf("unmarshal = %s, want Learning", s)
	}

	if err := json.Unmarshal([]byte(`"Dormant"`), &s); err == nil {
		t.Error("unmarshal of unknown state should fail")
	}
}

func TestWeightsBoundsShape(t *testing.T) {
	if len(LowerBounds) != NumWeights || len(UpperBounds) != NumWeights {
		t.Fatalf("bounds have %d/%d entries, want %d", len(LowerBounds), len(UpperBounds), NumWeights)
	}
	def := DefaultWeights()
	for i := range def {
		if def[i] < LowerBounds[i] || def[i] > UpperBounds[i] {
			t.Errorf("default w[%d]=%v outside [%v, %v]", i, def[i], LowerBounds[i], UpperBounds[i])
		}
	}
}

func TestDefaultWeightsFreshCopy(t *testing.T) {
	a := DefaultWeights()
	a[0] = 999
	if b := DefaultWeights(); b[0] == 999 {
		t.Error("DefaultWeights shares state between calls")
	}
}
