// Command eagled runs the illustrative Eagle TCP server on top of the
// executor package's cooperative scheduler.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ichigo-dev/eagle/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "eagled",
		Short: "eagled serves the illustrative Eagle TCP endpoint on the Eagle executor",
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var (
		address    string
		numWorkers int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "bind an address and serve connections until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.NewEagleServerBuilder().
				Address(address).
				NumWorkers(numWorkers).
				Build()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&address, "address", "127.0.0.1:5500", "address to bind")
	cmd.Flags().IntVar(&numWorkers, "workers", 4, "number of executor worker threads")
	return cmd
}
