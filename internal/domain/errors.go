package domain

import "errors"

var (
	// ErrProductNotFound signals a missing product record.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidRequest signals a malformed search request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorDimMismatch signals a vector dimension mismatch on index writes.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
