package book

import "errors"

// Error kinds per spec §7. These are sentinels, not wrapped types: callers
// compare with errors.Is. None of them indicate a state change — every
// operation that returns one leaves the book exactly as it was.
var (
	// ErrDuplicateOrderID is returned by AddOrder when OrderID already
	// names a live order in this book (or, at the Engine layer, any book).
	ErrDuplicateOrderID = errors.New("book: duplicate order id")

	// ErrUnknownOrder is returned by CancelOrder/AmendOrder for an id that
	// is not currently resting in the book.
	ErrUnknownOrder = errors.New("book: unknown order id")

	// ErrInvalidPrice is returned when a limit price is not strictly
	// positive and finite.
	ErrInvalidPrice = errors.New("book: invalid price")

	// ErrInvalidQuantity is returned when a quantity is not a strictly
	// positive integer.
	ErrInvalidQuantity = errors.New("book: invalid quantity")
)
