package strand_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/strandkit/strand"
	"github.com/strandkit/strand/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedTextStream returns a mock TextStream that replays deltas in order
// and then the terminal error. Text() reflects the deltas consumed so far.
func scriptedTextStream(deltas []string, terminal error) *mock.TextStream {
	i := 0
	var acc strand.TextAccumulator
	return &mock.TextStream{
		NextFn: func() (strand.Event, error) {
			if i >= len(deltas) {
				return nil, terminal
			}
			d := deltas[i]
			i++
			acc.Append(d)
			return strand.EventTextDelta{Delta: d}, nil
		},
		TextFn: func() (string, error) { return acc.String(), nil },
	}
}

func TestChat_Send_AppendsMessagesAndSnapshots(t *testing.T) {
	t.Parallel()
	provider := &mock.ChatProvider{
		StreamChatFn: func(ctx context.Context, req strand.ChatRequest) (strand.TextStream, error) {
			return scriptedTextStream([]string{"Hel", "lo"}, io.EOF), nil
		},
	}
	chat := strand.NewChat(provider)
	session := strand.NewSession("You are an ideation assistant.")

	var snapshots []string
	err := chat.Send(context.Background(), &session, "hi",
		strand.WithSnapshotHandler(func(text string) { snapshots = append(snapshots, text) }))
	require.NoError(t, err)

	assert.Equal(t, []string{"Hel", "Hello"}, snapshots, "snapshot grows, never replaced")
	require.Len(t, session.Messages, 2)
	user, ok := session.Messages[0].(strand.UserMessage)
	require.True(t, ok)
	assert.Equal(t, "hi", user.Text)
	reply, ok := session.Messages[1].(strand.AssistantMessage)
	require.True(t, ok)
	assert.Equal(t, "Hello", reply.Text)
	assert.Equal(t, strand.OutcomeComplete, reply.Outcome)
}

func TestChat_Send_StreamFailureKeepsPartialText(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("boom")
	provider := &mock.ChatProvider{
		StreamChatFn: func(ctx context.Context, req strand.ChatRequest) (strand.TextStream, error) {
			return scriptedTextStream([]string{"partial"}, wantErr), nil
		},
	}
	chat := strand.NewChat(provider)
	session := strand.NewSession("")

	err := chat.Send(context.Background(), &session, "hi")
	assert.ErrorIs(t, err, wantErr)

	require.Len(t, session.Messages, 2)
	reply := session.Messages[1].(strand.AssistantMessage)
	assert.Equal(t, "partial", reply.Text)
	assert.Equal(t, strand.OutcomeFailed, reply.Outcome)
	assert.Equal(t, "boom", reply.Detail)
}

func TestChat_Send_ClosedStreamIsCancelled(t *testing.T) {
	t.Parallel()
	provider := &mock.ChatProvider{
		StreamChatFn: func(ctx context.Context, req strand.ChatRequest) (strand.TextStream, error) {
			return scriptedTextStream([]string{"so far"}, strand.ErrStreamClosed), nil
		},
	}
	chat := strand.NewChat(provider)
	session := strand.NewSession("")

	err := chat.Send(context.Background(), &session, "hi")
	assert.ErrorIs(t, err, strand.ErrStreamClosed)

	reply := session.Messages[1].(strand.AssistantMessage)
	assert.Equal(t, strand.OutcomeCancelled, reply.Outcome)
	assert.Equal(t, "so far", reply.Text)
	assert.Empty(t, reply.Detail)
}

func TestChat_Send_ProviderErrorRecordsFailure(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("connection failed")
	provider := &mock.ChatProvider{
		StreamChatFn: func(ctx context.Context, req strand.ChatRequest) (strand.TextStream, error) {
			return nil, wantErr
		},
	}
	chat := strand.NewChat(provider)
	session := strand.NewSession("")

	err := chat.Send(context.Background(), &session, "hi")
	assert.ErrorIs(t, err, wantErr)

	require.Len(t, session.Messages, 2)
	reply := session.Messages[1].(strand.AssistantMessage)
	assert.Equal(t, strand.OutcomeFailed, reply.Outcome)
	assert.Empty(t, reply.Text)
}

func TestChat_Send_PassesModelAndSystemPrompt(t *testing.T) {
	t.Parallel()
	var got strand.ChatRequest
	provider := &mock.ChatProvider{
		StreamChatFn: func(ctx context.Context, req strand.ChatRequest) (strand.TextStream, error) {
			got = req
			return scriptedTextStream(nil, io.EOF), nil
		},
	}
	chat := strand.NewChat(provider)
	session := strand.NewSession("be brief")

	err := chat.Send(context.Background(), &session, "hi", strand.WithModel("m-1"))
	require.NoError(t, err)
	assert.Equal(t, "m-1", got.Model)
	assert.Equal(t, "be brief", got.SystemPrompt)
	require.NotEmpty(t, got.Messages)
	assert.Equal(t, strand.RoleUser, got.Messages[len(got.Messages)-1].Role())
}
