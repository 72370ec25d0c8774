// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - PassageStore: Holds the loaded knowledge passages
//   - Normaliser: Extracts text from a corpus file format
//   - NormaliserRegistry: Selects the appropriate normaliser
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Completion backend. Without it, replies carry the
//     not-configured notice.
//   - MessageSender: Outbound WhatsApp delivery. Without it, sends fail
//     with a missing-token result.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
