package strand

import "context"

// ChatProvider is a strategy pattern interface for chat-mode backends.
type ChatProvider interface {
	StreamChat(ctx context.Context, req ChatRequest) (TextStream, error)
}

// TableProvider is a strategy pattern interface for tabular-mode backends.
type TableProvider interface {
	StreamTable(ctx context.Context, req TableRequest) (TableStream, error)
}
