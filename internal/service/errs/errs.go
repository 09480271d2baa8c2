package errs

import "errors"

// Sentinel errors shared across services. The HTTP layer maps these to
// response status codes; everything else is treated as internal.
var (
	ErrUnauthenticated   = errors.New("could not validate credentials")
	ErrNotFound          = errors.New("not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("not enough stock available")
	ErrEmptyBasket       = errors.New("basket is empty")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrEmailTaken        = errors.New("email already registered")
	ErrOrderCancelled    = errors.New("order already cancelled")
)
