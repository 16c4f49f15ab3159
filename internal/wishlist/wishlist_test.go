package wishlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusTodo.Valid())
	assert.True(t, StatusDone.Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("TODO").Valid(), "statuses are case sensitive")
}

func TestStatusToggled(t *testing.T) {
	assert.Equal(t, StatusDone, StatusTodo.Toggled())
	assert.Equal(t, StatusTodo, StatusDone.Toggled())
}

func TestPriorityValid(t *testing.T) {
	assert.True(t, PriorityNone.Valid())
	assert.True(t, PriorityLow.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("urgent").Valid())
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"50% off", `50\% off`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in), "input %q", tt.in)
	}
}
