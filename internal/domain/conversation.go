package domain

// Role tags a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message follows the role/content pair required by chat APIs.
type Message struct {
	Role    Role   `yaml:"role"`
	Content string `yaml:"content"`
}

// Usage is the token report returned by a provider for one completion.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Completion is a provider reply. Sessions accept exactly one choice.
type Completion struct {
	Choices []Message
	Usage   Usage
}

// Conversation is the persisted state of a named model session.
// Message order is the model's input history.
type Conversation struct {
	Name         string    `yaml:"-"`
	Messages     []Message `yaml:"messages"`
	TokensInput  int       `yaml:"tokens_input"`
	TokensOutput int       `yaml:"tokens_output"`
	TokensTotal  int       `yaml:"tokens_total"`
}

// AddPreprompt inserts the system message once, only into an empty history.
func (c *Conversation) AddPreprompt(content string) bool {
	if len(c.Messages) > 0 {
		return false
	}
	c.Messages = append(c.Messages, Message{Role: RoleSystem, Content: content})
	return true
}

// Append adds a message to the end of the history.
func (c *Conversation) Append(role Role, content string) {
	c.Messages = append(c.Messages, Message{Role: role, Content: content})
}

// Account adds a usage report to the cumulative counters.
func (c *Conversation) Account(u Usage) {
	c.TokensInput += u.InputTokens
	c.TokensOutput += u.OutputTokens
	c.TokensTotal += u.TotalTokens
}

// History returns a copy of the messages.
func (c *Conversation) History() []Message {
	out := make([]Message, len(c.Messages))
	copy(out, c.Messages)
	return out
}

// Reset clears messages and counters.
func (c *Conversation) Reset() {
	c.Messages = nil
	c.TokensInput = 0
	c.TokensOutput = 0
	c.TokensTotal = 0
}
