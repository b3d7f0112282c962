// Command workflow serves the project setup checklist and its AI chats.
//
// Usage:
//
//	GEMINI_API_KEY=... workflow serve
//	workflow chat --item 3
//	workflow chat --agent Lyra
//	workflow render reply.md --format json
//	workflow items
//	workflow history export workflow-3
//
// Configuration is read from $XDG_CONFIG_HOME/workflow/config.yaml and from
// WORKFLOW_* environment variables, e.g. WORKFLOW_SERVE_ADDR.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Getenv)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "workflow: %v\n", err)
		os.Exit(1)
	}
}
