package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/strandkit/strand"
	"github.com/strandkit/strand/backend"
	"github.com/strandkit/strand/json"
	"github.com/strandkit/strand/sqlite"
)

const (
	defaultBaseURL = "http://localhost:8765"
	defaultDataDir = ".strand"
)

// rootOptions holds flags shared by all subcommands.
type rootOptions struct {
	baseURL string
	apiKey  string
	model   string
	store   string
	dataDir string
	debug   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "strand",
		Short: "Streaming client for the strand generation backend",
		Long: `Strand talks to a generation backend over streaming HTTP.

Chat mode renders replies incrementally in a TUI; generate mode personalizes
a CSV of records and streams the resulting table row by row.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", envOr("STRAND_BASE_URL", defaultBaseURL), "Backend base URL")
	cmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", os.Getenv("STRAND_API_KEY"), "API key (overrides STRAND_API_KEY)")
	cmd.PersistentFlags().StringVar(&opts.model, "model", "", "Model ID (default: backend default)")
	cmd.PersistentFlags().StringVar(&opts.store, "store", "json", "Session store: json, sqlite")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", defaultDataDir, "Directory for sessions and the sqlite database")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newChatCmd(opts))
	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newStubCmd(opts))

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// logger builds the CLI logger. Debug output goes to stderr so it never
// interleaves with streamed stdout content.
func (o *rootOptions) logger() *log.Logger {
	logger := log.New(os.Stderr)
	if o.debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func (o *rootOptions) client() *backend.Client {
	clientOpts := []backend.Option{backend.WithLogger(o.logger())}
	if o.apiKey != "" {
		clientOpts = append(clientOpts, backend.WithAPIKey(o.apiKey))
	}
	return backend.New(o.baseURL, clientOpts...)
}

// sessionStore opens the configured session store. The sqlite store must be
// closed by the caller; the json store's closer is a no-op.
func (o *rootOptions) sessionStore(cmd *cobra.Command) (strand.SessionStore, func() error, error) {
	switch o.store {
	case "json":
		dir := filepath.Join(o.dataDir, "sessions")
		return json.NewStore(dir), func() error { return nil }, nil
	case "sqlite":
		if err := os.MkdirAll(o.dataDir, 0o700); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		store, err := sqlite.Open(cmd.Context(), filepath.Join(o.dataDir, "strand.db"))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q (want json or sqlite)", o.store)
	}
}
