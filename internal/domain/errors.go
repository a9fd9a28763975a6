package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrFormNotFound        = errors.New("form not found")
	ErrFormInactive        = errors.New("form is no longer accepting responses")
	ErrResponseNotFound    = errors.New("response not found")
	ErrInvalidSchema       = errors.New("invalid extraction schema")
	ErrInvalidExportFormat = errors.New("unsupported export format")
)
