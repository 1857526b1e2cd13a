package tokenizer

import "errors"

var (
	// ErrNotTrained is returned by operations that need a trained model.
	ErrNotTrained = errors.New("tokenizer has not been trained or loaded")
	// ErrAlreadyTrained is returned when train or load would overwrite an
	// existing model without force. The existing model is left untouched.
	ErrAlreadyTrained = errors.New("tokenizer is already trained")
	// ErrUnknownSymbol is returned when a symbol has no vocabulary entry.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrUnknownID is returned when an id lies outside the vocabulary.
	ErrUnknownID = errors.New("unknown token id")
	// ErrNoMergeableBigram is returned when training runs out of adjacent
	// pairs before the requested number of merges.
	ErrNoMergeableBigram = errors.New("no mergeable bigram left in corpus")
	// ErrMalformedModel is returned for persisted documents that are missing
	// required fields or violate the model shape.
	ErrMalformedModel = errors.New("malformed model file")
	// ErrInvalidMergeCount is returned for a negative merge count.
	ErrInvalidMergeCount = errors.New("number of merges must not be negative")
)
