package heatmap

import "errors"

var (
	// ErrInvalidArgument is returned for malformed colors, negative step
	// counts and values that cannot be ranked.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when an element expected on the page is missing.
	ErrNotFound = errors.New("not found")
)
