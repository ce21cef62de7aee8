package feedback

import "errors"

var (
	ErrForbidden = errors.New("forbidden")
	ErrStore     = errors.New("store_unavailable")
)
