package domain

// Fixed user-facing texts produced by the response composer.
const (
	// NotConfiguredText is returned when no backend credential was supplied.
	NotConfiguredText = "Error: AI is not configured (Missing Groq API Key)."

	// BackendFailureText is returned when the completion backend fails.
	BackendFailureText = "I'm having trouble connecting to my brain right now. Please try again."

	// HandoffText is the sentence the model is instructed to use when the
	// context does not contain the answer.
	HandoffText = "I don't have that info, but I can connect you to a human agent."
)

// FailureKind classifies why a reply could not be generated.
type FailureKind int

const (
	// FailureNone means the reply carries generated text.
	FailureNone FailureKind = iota

	// FailureNotConfigured means the backend credential is missing.
	FailureNotConfigured

	// FailureBackend means the backend call failed.
	FailureBackend
)

// String returns the string representation.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureNotConfigured:
		return "not_configured"
	case FailureBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Reply is the typed outcome of composing an answer.
// Channels never see it directly; they receive Render().
type Reply struct {
	// Text is the generated completion. Empty on failure.
	Text string

	// Failure is FailureNone on success.
	Failure FailureKind

	// Err is the underlying backend error, if any.
	Err error
}

// ReplyText creates a successful reply.
func ReplyText(text string) Reply {
	return Reply{Text: text}
}

// ReplyNotConfigured creates a reply for a missing backend credential.
func ReplyNotConfigured() Reply {
	return Reply{Failure: FailureNotConfigured, Err: ErrLLMUnavailable}
}

// ReplyBackendFailure creates a reply for a failed backend call.
func ReplyBackendFailure(err error) Reply {
	return Reply{Failure: FailureBackend, Err: err}
}

// OK returns true if the reply carries generated text.
func (r Reply) OK() bool {
	return r.Failure == FailureNone
}

// Render maps the reply to the text shown to the end user.
func (r Reply) Render() string {
	switch r.Failure {
	case FailureNone:
		return r.Text
	case FailureNotConfigured:
		return NotConfiguredText
	default:
		return BackendFailureText
	}
}
