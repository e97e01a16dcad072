package repository

import "errors"

var (
	ErrNotFound       = errors.New("entity not found")
	ErrDuplicate      = errors.New("entity already exists")
	ErrOptimisticLock = errors.New("entity was modified concurrently")
	ErrUpdateFailed   = errors.New("entity update failed")
)
