package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/outpostmon/redisq/logging"
	"github.com/outpostmon/redisq/queue"
	"github.com/outpostmon/redisq/sender"
	"github.com/outpostmon/redisq/wire"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Connect once and issue a single synchronous PING",
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

		start := time.Now()
		sync := sender.Sync{C: c}
		res := sync.Send(mustQuery("PING"), queue.Heartbeat)
		if res.Err != nil {
			return res.Err
		}
		fmt.Printf("PONG (%s)\n", time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func mustQuery(cmd string, args ...interface{}) wire.Query {
	q, err := wire.NewQuery(cmd, args...)
	if err != nil {
		panic(err)
	}
	return q
}
