package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidates(t *testing.T) {
	n := NewNormalizer("33", "0")

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "spaced national",
			raw:  "06 12 34 56 78",
			want: []string{"06 12 34 56 78", "0612345678", "612345678"},
		},
		{
			name: "compact national",
			raw:  "0612345678",
			want: []string{"0612345678", "612345678"},
		},
		{
			name: "without trunk digit",
			raw:  "612345678",
			want: []string{"612345678", "0612345678"},
		},
		{
			name: "international sender",
			raw:  "+33612345678",
			want: []string{"+33612345678", "0612345678", "612345678"},
		},
		{
			name: "international with separators",
			raw:  "+33 6 12-34.56.78",
			want: []string{"+33 6 12-34.56.78", "+33612345678", "06 12-34.56.78", "0612345678", "612345678"},
		},
		{
			name: "double zero prefix",
			raw:  "0033612345678",
			want: []string{"0033612345678", "0612345678", "612345678"},
		},
		{
			name: "empty",
			raw:  "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Candidates(tt.raw))
		})
	}
}

func TestKey_SameNumberSameKey(t *testing.T) {
	n := NewNormalizer("", "")

	forms := []string{"06 12 34 56 78", "0612345678", "612345678", "+33612345678", "+33 6 12 34 56 78", "0033 6 12 34 56 78", "06.12.34.56.78"}
	for _, f := range forms {
		assert.Equal(t, "612345678", n.Key(f), f)
	}

	assert.Equal(t, "+447700900123", n.Key("+44 7700 900123"))
	assert.Equal(t, "", n.Key("  "))
}

func TestE164(t *testing.T) {
	n := NewNormalizer("33", "0")

	assert.Equal(t, "+33612345678", n.E164("06 12 34 56 78"))
	assert.Equal(t, "+33612345678", n.E164("+33612345678"))
	assert.Equal(t, "+447700900123", n.E164("+447700900123"))
}
