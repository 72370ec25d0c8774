// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The retrieval and reply pipeline lives here: KnowledgeService scores
// passages lexically, ChatService composes the grounded prompt and renders
// the reply, and RelayService forwards replies to outbound channels.
package services
