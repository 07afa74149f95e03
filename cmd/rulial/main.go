// SPDX-License-Identifier: MIT

// Command rulial simulates outer-totalistic cellular automata and classifies
// their rules by the cohomology, spectrum, Hodge decomposition and monodromy
// of the grid graph.
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
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
