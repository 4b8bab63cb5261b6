package ssr

import "errors"

var (
	// ErrConfig marks a run configuration that cannot be executed, such as an
	// absolute spike mode without a threshold. Raised before any route is read.
	ErrConfig = errors.New("invalid run configuration")

	// ErrInput marks a structural problem with one route's source: missing
	// file, no data rows, or an unusable column set.
	ErrInput = errors.New("invalid route input")
)
