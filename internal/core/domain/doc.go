// Package domain contains the core business entities and errors for the
// Lexpert backend: documents and their chunks, tags, retrieval results,
// storage receipts, and authenticated identities.
//
// Domain types have no dependencies on adapters or external services.
package domain
