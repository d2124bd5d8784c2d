package repositories

import "errors"

// ErrNotFound reports that the remote service has no product with the
// requested id.
var ErrNotFound = errors.New("product not found")
