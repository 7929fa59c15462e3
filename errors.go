package main

import "errors"

// Client-visible failure classes. The HTTP boundary maps these to 4xx
// responses; any other error surfacing from a converter is a server fault.
var (
	ErrMissingExtension  = errors.New("file must have an extension")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrCorruptUpload     = errors.New("could not read uploaded document")
)
