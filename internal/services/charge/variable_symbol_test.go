package charge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewVariableSymbol(t *testing.T) {
	at := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	vs := NewVariableSymbol(at)

	assert.Len(t, vs, 14)
	assert.Equal(t, "2506151030", vs[:10])
	assert.Regexp(t, `^\d{14}$`, vs)
}
