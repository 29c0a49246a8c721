// Package idutil is the external-collaborator helper spec §4.3 calls
// out: "A helper generator for client-side unique order_ids is an
// external-collaborator concern." The engine core never imports this —
// it only ever receives order ids the caller already chose.
package idutil

import "github.com/google/uuid"

// NewClientOrderID returns a fresh UUIDv4 string suitable for use as an
// Order.OrderID. Collision probability is negligible but not zero; the
// engine's own ErrDuplicateOrderID check is the actual correctness
// backstop (spec §7), not this generator.
func NewClientOrderID() string {
	return uuid.NewString()
}
