package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/strandkit/strand"
	bt "github.com/strandkit/strand/bubbletea"
)

const defaultSystemPrompt = "You are a helpful assistant. Keep answers concise."

func newChatCmd(opts *rootOptions) *cobra.Command {
	var (
		sessionID  string
		promptPath string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat with streaming replies",
		Long: `Start the chat TUI. Replies stream in as they are generated; Ctrl+C
cancels the current reply and keeps the partial text, Ctrl+C again quits.

Pass --session to resume a previous conversation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, opts, sessionID, promptPath)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID to resume")
	cmd.Flags().StringVar(&promptPath, "system-prompt", "", "Path to a system prompt file")

	return cmd
}

func runChat(cmd *cobra.Command, opts *rootOptions, sessionID, promptPath string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	store, closeStore, err := opts.sessionStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	session, err := loadOrCreateSession(ctx, store, sessionID, promptPath)
	if err != nil {
		return err
	}

	chat := strand.NewChat(opts.client())
	model := opts.model
	send := func(ctx context.Context, s *strand.Session, prompt string, onSnapshot func(string)) error {
		runOpts := []strand.RunOption{strand.WithSnapshotHandler(onSnapshot)}
		if model != "" {
			runOpts = append(runOpts, strand.WithModel(model))
		}
		return chat.Send(ctx, s, prompt, runOpts...)
	}

	tui := bt.New(send, &session, strand.DefaultTheme())
	if err := bt.Run(ctx, tui); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}

	if len(session.Messages) > 0 {
		if err := store.Save(context.Background(), session); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Session saved: %s\n", session.ID)
	}
	return nil
}

func loadOrCreateSession(ctx context.Context, store strand.SessionStore, sessionID, promptPath string) (strand.Session, error) {
	if sessionID != "" {
		session, err := store.Load(ctx, sessionID)
		if err != nil {
			if errors.Is(err, strand.ErrSessionNotFound) {
				return strand.Session{}, fmt.Errorf("session %s not found", sessionID)
			}
			return strand.Session{}, fmt.Errorf("load session: %w", err)
		}
		return session, nil
	}

	systemPrompt := defaultSystemPrompt
	if promptPath != "" {
		data, err := os.ReadFile(promptPath)
		if err != nil {
			return strand.Session{}, fmt.Errorf("read system prompt: %w", err)
		}
		systemPrompt = strings.TrimSpace(string(data))
	}
	return strand.NewSession(systemPrompt), nil
}
