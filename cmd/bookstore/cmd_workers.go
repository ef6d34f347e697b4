package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yasithJay/online-bookstore-final-assessment/config"
	"github.com/yasithJay/online-bookstore-final-assessment/internal/bootstrap"
)

var queueWorkersFlag int

// bookstore queue:work — run the queue workers without the HTTP server.
// Useful when QUEUE_DRIVER=redis and workers live in their own process.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap.New()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = config.QueueWorkers()
		}

		fmt.Printf("🚀 Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		app.Queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		app.Queue.Wait()
		fmt.Println("\n⚡ Queue worker stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 0, "Number of concurrent workers (defaults to QUEUE_WORKERS)")
}
