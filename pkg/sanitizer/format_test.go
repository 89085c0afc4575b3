package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/volunhub/volunhub/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Alice@Example.COM", "alice@example.com"},
		{"trims whitespace", "  bob@example.com  ", "bob@example.com"},
		{"consolidates dots", "a..b@example.com", "a.b@example.com"},
		{"strips edge dots", ".carol.@example.com", "carol@example.com"},
		{"invalid shape untouched", "not-an-email", "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.NormalizeEmail(tt.input))
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alice_99", sanitizer.NormalizeUsername(" Alice_99 "))
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "+15551234567", sanitizer.NormalizePhone("+1 (555) 123-4567"))
	assert.Equal(t, "5551234", sanitizer.NormalizePhone("555-1234"))
}

func TestTrimText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12 Main Street", sanitizer.TrimText("  12  Main   Street "))
}
