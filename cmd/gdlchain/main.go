// Command gdlchain evaluates a built-in GDL game to its fixpoint and prints the
// derived sentences, grouped by form.
//
//	gdlchain list
//	gdlchain run tictactoe --planner=legacy --config=gdlchain.yaml
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatalf("gdlchain: %v", err)
	}
}
