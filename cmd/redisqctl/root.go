package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagHost           string
	flagPort           int
	flagUnixPath       string
	flagPassword       string
	flagDB             int
	flagDialTimeout    time.Duration
	flagIOTimeout      time.Duration
	flagReconnectPause time.Duration
	flagPingInterval   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "redisqctl",
	Short: "Operate a redisq connection actor against a RESP-2 server",
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&flagHost, "host", "H", "127.0.0.1", "server host")
	flags.IntVarP(&flagPort, "port", "p", 6379, "server port")
	flags.StringVar(&flagUnixPath, "unix-path", "", "unix socket path (overrides host/port)")
	flags.StringVar(&flagPassword, "password", "", "AUTH password")
	flags.IntVar(&flagDB, "db", 0, "SELECT index")
	flags.DurationVar(&flagDialTimeout, "dial-timeout", 5*time.Second, "dial timeout")
	flags.DurationVar(&flagIOTimeout, "io-timeout", time.Second, "per-operation read/write timeout")
	flags.DurationVar(&flagReconnectPause, "reconnect-pause", 500*time.Millisecond, "base delay between reconnect attempts")
	flags.DurationVar(&flagPingInterval, "ping-interval", 30*time.Second, "keepalive ping interval, 0 to disable")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
