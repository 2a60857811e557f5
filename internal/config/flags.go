package config

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags to a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "functrace-demo",
		Short:         "Run a simulated workload and stream windowed latency reports",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Reporting flags
	flags.DurationP("interval", "i", time.Minute, "Aggregation window and reporting interval")
	flags.StringSlice("driver", nil, "Report driver to enable (stdout, log, nats, websocket, pushgateway, file); repeatable")
	flags.Bool("percentiles", false, "Include p50/p90/p99 in every reported window")

	// Sink flags
	flags.String("nats-url", "", "NATS server URL for the nats driver")
	flags.String("nats-subject", "functrace.reports", "NATS subject for the nats driver")
	flags.String("ws-url", "", "WebSocket endpoint URL for the websocket driver")
	flags.String("push-url", "", "Prometheus pushgateway base URL for the pushgateway driver")
	flags.String("push-job", "functrace", "Pushgateway job name")
	flags.String("file-path", "", "Output path for the file driver")

	// Workload flags
	flags.IntP("workers", "w", 4, "Number of concurrent workload goroutines")
	flags.IntP("rate", "r", 20, "Invocations per second across all workers (0 means unpaced)")
	flags.DurationP("duration", "d", 0, "How long to run the workload (0 means until interrupted)")

	flags.BoolP("verbose", "v", false, "Log reporter activity to stderr")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")
}

func displayHelp(cmd *cobra.Command) {
	_ = cmd.Help()
}
