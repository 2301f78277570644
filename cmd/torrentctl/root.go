package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"torrentctl/internal/app"
	"torrentctl/internal/client"
	"torrentctl/internal/domain"
	"torrentctl/internal/filter"
	"torrentctl/internal/metrics"
	"torrentctl/internal/telemetry"
	"torrentctl/internal/transmission"
)

// errFailed marks a run where the daemon answered but nothing was changed
// or matched. main turns it into exit code 1 without an extra message; the
// per-torrent messages were already printed.
var errFailed = errors.New("action failed")

// cliEnv carries the wired client into every subcommand.
type cliEnv struct {
	logger   *slog.Logger
	client   *client.Client
	shutdown func(context.Context) error

	ids        []int64
	filterExpr string
}

func newRootCmd() *cobra.Command {
	env := &cliEnv{}
	root := &cobra.Command{
		Use:           "torrentctl",
		Short:         "Control a remote torrent daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := app.LoadConfig()
			env.logger = app.NewLogger(cfg.LogLevel, cfg.LogFormat)
			slog.SetDefault(env.logger)
			metrics.Register(prometheus.DefaultRegisterer)

			shutdown, err := telemetry.Init(cmd.Context(), "torrentctl")
			if err != nil {
				env.logger.Warn("otel init failed", slog.String("error", err.Error()))
			}
			env.shutdown = shutdown

			transport := transmission.New(cfg.DaemonURL, env.logger,
				transmission.WithTimeout(cfg.RPCTimeout),
				transmission.WithRetryMax(cfg.RetryMax),
				transmission.WithRateLimit(cfg.RPCRateLimit),
			)
			env.client = client.New(transport, env.logger)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if env.shutdown != nil {
				_ = env.shutdown(cmd.Context())
			}
		},
	}
	root.PersistentFlags().Int64SliceVar(&env.ids, "ids", nil, "torrent IDs to act on (default: all)")
	root.PersistentFlags().StringVarP(&env.filterExpr, "filter", "f", "", "filter expression, e.g. 'status == \"seeding\" && ratio > 1'")

	root.AddCommand(
		newListCmd(env),
		newAddCmd(env),
		newStartCmd(env),
		newStopCmd(env),
		newToggleCmd(env),
		newVerifyCmd(env),
		newRemoveCmd(env),
		newMoveCmd(env),
		newAnnounceCmd(env),
		newLimitRateCmd(env),
		newTrackerCmd(env),
		newPriorityCmd(env),
	)
	return root
}

// selector turns the --ids / --filter flags into the client's selector
// argument. Both unset means every torrent.
func (env *cliEnv) selector() (any, error) {
	if env.filterExpr != "" {
		if len(env.ids) > 0 {
			return nil, errors.New("--ids and --filter are mutually exclusive")
		}
		return filter.NewTorrent(env.filterExpr)
	}
	if len(env.ids) > 0 {
		ids := make([]domain.TorrentID, len(env.ids))
		for i, id := range env.ids {
			ids[i] = domain.TorrentID(id)
		}
		return ids, nil
	}
	return nil, nil
}

// report prints the response's messages and maps an unsuccessful response
// to a nonzero exit.
func report(resp domain.Response, err error) error {
	if err != nil {
		return err
	}
	for _, msg := range resp.Messages {
		if msg.Err {
			fmt.Fprintln(os.Stderr, msg.Text)
			continue
		}
		fmt.Println(msg.Text)
	}
	if !resp.Success {
		return errFailed
	}
	return nil
}
