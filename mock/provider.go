// Package mock provides test doubles for strand interfaces using function fields.
package mock

import (
	"context"

	"github.com/strandkit/strand"
)

// Interface compliance checks.
var (
	_ strand.ChatProvider  = (*ChatProvider)(nil)
	_ strand.TableProvider = (*TableProvider)(nil)
)

// ChatProvider is a test double for strand.ChatProvider.
// Set StreamChatFn before calling StreamChat.
type ChatProvider struct {
	StreamChatFn func(ctx context.Context, req strand.ChatRequest) (strand.TextStream, error)
}

// StreamChat delegates to StreamChatFn.
func (p *ChatProvider) StreamChat(ctx context.Context, req strand.ChatRequest) (strand.TextStream, error) {
	return p.StreamChatFn(ctx, req)
}

// TableProvider is a test double for strand.TableProvider.
// Set StreamTableFn before calling StreamTable.
type TableProvider struct {
	StreamTableFn func(ctx context.Context, req strand.TableRequest) (strand.TableStream, error)
}

// StreamTable delegates to StreamTableFn.
func (p *TableProvider) StreamTable(ctx context.Context, req strand.TableRequest) (strand.TableStream, error) {
	return p.StreamTableFn(ctx, req)
}
