package service

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrOfferNotFound   = errors.New("offer not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrThreadNotFound  = errors.New("thread not found")
	ErrWantedNotFound  = errors.New("wanted post not found")
	ErrForbidden       = errors.New("user not authorized to perform this action")
	ErrListingNotActive = errors.New("listing is not active")
)
