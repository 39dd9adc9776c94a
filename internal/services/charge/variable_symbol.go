package charge

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewVariableSymbol generates the business payment identifier: a time-seeded
// numeric string. Uniqueness is backstopped by the unique index on the
// payments table; a collision surfaces as an insert error and fails the token,
// not the batch.
func NewVariableSymbol(t time.Time) string {
	return fmt.Sprintf("%s%04d", t.Format("0601021504"), rand.IntN(10000))
}
