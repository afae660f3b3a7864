package wishlist

import "errors"

var (
	// ErrEmptyTitle is returned when an item is added with an empty or
	// whitespace-only title. No store call is made.
	ErrEmptyTitle = errors.New("wishlist: title is required")

	// ErrEmptyListCode is returned when a command is issued without an
	// active list code.
	ErrEmptyListCode = errors.New("wishlist: list code is required")

	// ErrInvalidStatus is returned when a status outside the known set is
	// requested.
	ErrInvalidStatus = errors.New("wishlist: invalid status")

	// ErrItemNotFound is returned by the store when a patch targets an item
	// that does not exist.
	ErrItemNotFound = errors.New("wishlist: item not found")
)
