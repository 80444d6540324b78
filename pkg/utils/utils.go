// Path: pkg/utils/utils.go
package utils

import (
	"github.com/google/uuid"
)

// NewReference generates a unique reference attached to every ledger row,
// so support staff can look a transaction up from a customer receipt.
func NewReference() string {
	return uuid.NewString()
}
