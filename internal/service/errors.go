package service

import "errors"

// ErrInvalidRequest marks caller mistakes detected before any mutation:
// malformed items, mismatched totals, unknown order types. The HTTP layer
// maps it to a 400.
var ErrInvalidRequest = errors.New("invalid request")
