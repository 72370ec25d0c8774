// Package domain defines the core business entities for the Nexova agent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Passage: A paragraph of the knowledge corpus
//   - Reply: The outcome of composing an answer
//   - SendResult: The outcome of an outbound channel delivery
//   - Settings: Runtime configuration for every component
//   - RawDocument: Opaque bytes of the corpus file before normalisation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
