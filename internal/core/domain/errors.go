package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	// Input validation failures are rejected immediately and never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates an embedding does not match the
	// configured system-wide vector dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// External dependency errors. Each external call fails independently
	// and immediately; there is no centralised retry policy.

	// ErrEmbeddingFailure indicates the embedding service call failed.
	// Callers decide whether to abort ingestion or retry.
	ErrEmbeddingFailure = errors.New("embedding service failure")

	// ErrLLMFailure indicates the language model call failed.
	// The answerer surfaces this as-is rather than returning an empty answer.
	ErrLLMFailure = errors.New("language model failure")

	// ErrStoreFailure indicates the document store is unreachable or erroring.
	ErrStoreFailure = errors.New("document store failure")

	// ErrBlobFailure indicates the blob storage backend is unreachable or erroring.
	ErrBlobFailure = errors.New("blob storage failure")

	// Authentication errors. Terminal for the request, never retried.

	// ErrAuthRequired indicates no bearer credential was supplied.
	ErrAuthRequired = errors.New("bearer token required")

	// ErrAuthInvalid indicates the bearer credential was rejected.
	ErrAuthInvalid = errors.New("invalid or expired token")

	// ErrForbidden indicates the identity's role is insufficient.
	ErrForbidden = errors.New("insufficient role")
)
