package uid

import (
	"testing"
)

func TestNew(t *testing.T) {
	id1 := New()
	id2 := New()

	if id1 == id2 {
		t.Error("Generated identifiers should be unique")
	}
}

func TestNewLength(t *testing.T) {
	id := New()

	if len(id) != Length {
		t.Errorf("Identifier should be %d characters, got %d", Length, len(id))
	}
}

func TestNewIsValid(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := New()
		if !Valid(id) {
			t.Errorf("Generated identifier should be valid hex: %s", id)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid lowercase hex", "0123456789abcdef", true},
		{"too short", "abc", false},
		{"too long", "0123456789abcdef0", false},
		{"uppercase rejected", "0123456789ABCDEF", false},
		{"non-hex characters", "0123456789abcdeg", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.input); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
