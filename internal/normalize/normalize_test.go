package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ursula K. Le Guin", "ursula k. le guin"},
		{"  Frank   Herbert  ", "frank herbert"},
		{"ALICE", "alice"},
		{"", ""},
		{"   ", ""},
		{"one\ttwo\nthree", "one two three"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Name(tt.in), "input %q", tt.in)
	}
}
