package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/outpostmon/redisq/logging"
	"github.com/outpostmon/redisq/queue"
)

var monitorInterval time.Duration

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Fire a steady stream of synthetic CheckResult writes and report throughput",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log, err := logging.NewZap()
		if err != nil {
			return err
		}

		c, err := startConnection(ctx, log)
		if err != nil {
			return err
		}
		defer c.Close()

		var sent int64
		ticker := time.NewTicker(monitorInterval)
		defer ticker.Stop()

		report := time.NewTicker(time.Second)
		defer report.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				c.FireAndForget(mustQuery("INCR", "redisqctl:monitor:check"), queue.CheckResult)
				atomic.AddInt64(&sent, 1)
			case <-report.C:
				fmt.Printf("sent %d CheckResult writes/s\n", atomic.SwapInt64(&sent, 0))
			}
		}
	},
}

func init() {
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 10*time.Millisecond, "delay between synthetic CheckResult writes")
	rootCmd.AddCommand(monitorCmd)
}
