package contact

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrStore          = errors.New("contact_store_failed")
)
