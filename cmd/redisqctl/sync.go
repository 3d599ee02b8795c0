package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/outpostmon/redisq/logging"
	"github.com/outpostmon/redisq/queue"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fire a small burst of work across priorities, then block until it drains",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		log, err := logging.NewZap()
		if err != nil {
			return err
		}

		c, err := startConnection(ctx, log)
		if err != nil {
			return err
		}
		defer c.Close()

		c.FireAndForget(mustQuery("SET", "redisqctl:sync", "1"), queue.State)
		c.FireAndForget(mustQuery("INCR", "redisqctl:sync:count"), queue.CheckResult)

		start := time.Now()
		if err := c.Sync(); err != nil {
			return err
		}
		fmt.Printf("drained in %s\n", time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
