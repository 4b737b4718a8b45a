package contracts

import "context"

// IChatAIProvider is the single narrow boundary to the remote model. Both
// summarization and question answering go through one synchronous call.
type IChatAIProvider interface {
	GenerateContentRequest(ctx context.Context, prompt string) (string, error)
}
