package llms

// Message is a single message in the outbound request payload.
type Message struct {
	Role    MessageRole
	Content string
}

// MessageRole describes who the message is from
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// PendingRequest is the prompt currently being completed together with the
// context that was built for it. It only lives for one Complete call.
type PendingRequest struct {
	Prompt string
	// Context is the full user message: context prefix, rendered memory,
	// separator and the prompt itself.
	Context string
}

// Messages returns the payload messages for the request: the persona as the
// system message followed by the built context as the user message.
func (r PendingRequest) Messages(persona string) []Message {
	return []Message{
		{Role: MessageRoleSystem, Content: persona},
		{Role: MessageRoleUser, Content: r.Context},
	}
}
