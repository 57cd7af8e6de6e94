package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_KeepsFirstErrorPerField(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())

	v.Check(false, "title", "must be provided")
	v.Check(false, "title", "must not be more than 500 bytes long")
	v.Check(true, "id", "never added")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"title": "must be provided"}, v.Errors)
}

func TestNotBlank(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"dune", true},
		{"  dune ", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NotBlank(tt.value), "NotBlank(%q)", tt.value)
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("admin", UsernameRX))
	assert.True(t, Matches("jane.doe-01", UsernameRX))
	assert.False(t, Matches("jane doe", UsernameRX))
	assert.False(t, Matches("", UsernameRX))
}

func TestUniqueAndIn(t *testing.T) {
	assert.True(t, Unique([]string{"USER", "ADMIN"}))
	assert.False(t, Unique([]string{"USER", "USER"}))

	assert.True(t, In("id", "id", "title"))
	assert.False(t, In("year", "id", "title"))
}
