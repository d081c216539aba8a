package conversation

import "errors"

// Domain-specific errors for the conversation package.
var (
	ErrEmptyUtterance = errors.New("utterance is empty")
	ErrNoExtraction   = errors.New("extractor returned no usable reply")
)
