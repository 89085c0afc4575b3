package validator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunhub/volunhub/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("no failures returns nil", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RequiredString("name", "Alice"),
			validator.ValidEmail("email", "alice@example.com"),
		)
		assert.NoError(t, err)
	})

	t.Run("failures collected per field", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RequiredString("name", " "),
			validator.ValidEmail("email", "nope"),
		)
		require.Error(t, err)

		ve := validator.Extract(err)
		require.NotNil(t, ve)
		assert.True(t, ve.Has("name"))
		assert.True(t, ve.Has("email"))
		assert.Equal(t, []string{"name", "email"}, ve.Fields())
	})
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"a@x.com", "first.last@sub.example.org", "user_name@example.co"}
	invalid := []string{"", "plain", "a@b", "a b@x.com", "@x.com", "Display <a@x.com>"}

	for _, email := range valid {
		assert.NoError(t, validator.Apply(validator.ValidEmail("email", email)), email)
	}
	for _, email := range invalid {
		assert.Error(t, validator.Apply(validator.ValidEmail("email", email)), email)
	}
}

func TestValidUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		username string
		valid    bool
	}{
		{"alice", true},
		{"al_99", true},
		{"ab", false},       // too short
		{"no-dash", false},  // invalid char
		{"has space", false},
		{"abcdefghijklmnopqrstuvwxyz01234", false}, // 31 chars
	}

	for _, tt := range tests {
		err := validator.Apply(validator.ValidUsername("username", tt.username, 3, 30))
		if tt.valid {
			assert.NoError(t, err, tt.username)
		} else {
			assert.Error(t, err, tt.username)
		}
	}
}

func TestValidOTP(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(validator.ValidOTP("code", "123456", 6)))
	assert.Error(t, validator.Apply(validator.ValidOTP("code", "12345", 6)))
	assert.Error(t, validator.Apply(validator.ValidOTP("code", "12345a", 6)))
}

func TestMinAge(t *testing.T) {
	t.Parallel()

	adult := time.Now().AddDate(-20, 0, 0)
	minor := time.Now().AddDate(-12, 0, 0)

	assert.NoError(t, validator.Apply(validator.MinAge("date_of_birth", adult, 16)))
	assert.Error(t, validator.Apply(validator.MinAge("date_of_birth", minor, 16)))
	assert.Error(t, validator.Apply(validator.MinAge("date_of_birth", time.Time{}, 16)))
}

func TestCoordinateRules(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(
		validator.LongitudeRange("lng", 151.2093),
		validator.LatitudeRange("lat", -33.8688),
	))
	assert.Error(t, validator.Apply(validator.LongitudeRange("lng", 181)))
	assert.Error(t, validator.Apply(validator.LatitudeRange("lat", -91)))
}
