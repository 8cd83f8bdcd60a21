// Command strand is a streaming client for the strand generation backend.
//
// Usage:
//
//	strand chat                         Interactive chat TUI
//	strand generate "Hi {{name}}" ...   Personalize a CSV of records
//	strand stub                         Run a local stub backend
//
// The backend address comes from --base-url or STRAND_BASE_URL, the API key
// from --api-key or STRAND_API_KEY.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "strand: %v\n", err)
		os.Exit(1)
	}
}
