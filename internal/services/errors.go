package services

import "errors"

var (
	// No location sample has been received, or the latest one is too old.
	ErrNoFix = errors.New("no recent position fix")
	// The image classifier failed; the user fills the fields manually.
	ErrAnalysisFailed = errors.New("image analysis failed")
	ErrValidation     = errors.New("validation failed")
)
