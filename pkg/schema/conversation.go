package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Conversation is a sequence of messages exchanged with an LLM
type Conversation []*Message

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Append adds a message to the conversation
func (c *Conversation) Append(message Message) {
	*c = append(*c, &message)
}

// Truncate discards all messages after the first n
func (c *Conversation) Truncate(n int) {
	if n >= 0 && n < len(*c) {
		*c = (*c)[:n]
	}
}

// Last returns the most recent message, or nil if the conversation is empty
func (c Conversation) Last() *Message {
	if len(c) == 0 {
		return nil
	}
	return c[len(c)-1]
}

// Tokens returns the total number of tokens in the conversation
func (c Conversation) Tokens() uint {
	total := uint(0)
	for _, msg := range c {
		total += msg.Tokens
	}
	return total
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c Conversation) String() string {
	return types.Stringify(c)
}
