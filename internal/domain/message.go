package domain

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// History is an append-only conversation. Callers get copies of the
// messages, never the backing slice.
type History struct {
	messages []Message
}

func NewHistory(initial ...Message) *History {
	h := &History{}
	for _, msg := range initial {
		h.Append(msg.Role, msg.Content)
	}
	return h
}

func (h *History) Append(role Role, content string) {
	h.messages = append(h.messages, Message{Role: role, Content: content})
}

func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.messages)
}

func (h *History) Messages() []Message {
	if h == nil {
		return nil
	}
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *History) Last() (Message, bool) {
	if h.Len() == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

// CompletionOptions are the per-call knobs of the oracle boundary.
type CompletionOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}
