package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/strandkit/strand/stub"
)

func newStubCmd(opts *rootOptions) *cobra.Command {
	var (
		addr      string
		delay     time.Duration
		failAfter int
	)

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run a local stub backend",
		Long: `Serve a stub generation backend for development. Chat mode echoes the
last user message; tabular mode fills {{column}} placeholders from the input
records. --fail-after injects a mid-stream error for testing failure paths.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			server := stub.New(
				stub.WithLogger(opts.logger()),
				stub.WithDelay(delay),
				stub.WithFailAfter(failAfter),
			)
			return server.ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8765", "Listen address")
	cmd.Flags().DurationVar(&delay, "delay", 40*time.Millisecond, "Pause between streamed events")
	cmd.Flags().IntVar(&failAfter, "fail-after", 0, "Emit an error event after N data events (0 disables)")

	return cmd
}
