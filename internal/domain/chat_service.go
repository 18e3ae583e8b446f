package domain

import (
	"context"
)

// Generator forwards a prompt to a text generation backend and returns its raw reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (status int, body []byte, err error)
}

type ChatService struct {
	generator Generator
}

func NewChatService(generator Generator) *ChatService {
	return &ChatService{generator: generator}
}

// Echo is the local chat responder.
func (s *ChatService) Echo(message string) string {
	return "Echo: " + message
}

// Generate relays message to the generator unchanged.
func (s *ChatService) Generate(ctx context.Context, message string) (int, []byte, error) {
	return s.generator.Generate(ctx, message)
}
