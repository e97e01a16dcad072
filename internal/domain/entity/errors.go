package entity

import "errors"

// ErrValidation wraps every constructor precondition failure so callers can
// distinguish bad input from infrastructure errors.
var ErrValidation = errors.New("validation failed")
