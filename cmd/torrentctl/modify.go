package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"torrentctl/internal/client"
	"torrentctl/internal/filter"
)

func newLimitRateCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "limit-rate {up|down} RATE",
		Short: "Limit upload or download rate",
		Long: `Limit the transfer rate of the selected torrents.

RATE is a byte rate like "500k" or "1.5M", optionally with a "/s" suffix.
"+=" and "-=" adjust each torrent's current limit; an empty value or
"unlimited" removes the limit.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := env.selector()
			if err != nil {
				return err
			}
			switch args[0] {
			case "up":
				return report(env.client.LimitRateUp(cmd.Context(), sel, args[1]))
			case "down":
				return report(env.client.LimitRateDown(cmd.Context(), sel, args[1]))
			}
			return fmt.Errorf("invalid direction %q: must be up or down", args[0])
		},
	}
}

func newTrackerCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracker",
		Short: "Manage announce URLs",
	}

	add := &cobra.Command{
		Use:   "add URL...",
		Short: "Add announce URLs to the selected torrents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := env.selector()
			if err != nil {
				return err
			}
			return report(env.client.TrackerAdd(cmd.Context(), sel, args))
		},
	}

	var partial bool
	remove := &cobra.Command{
		Use:   "remove URL...",
		Short: "Remove announce URLs from the selected torrents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := env.selector()
			if err != nil {
				return err
			}
			return report(env.client.TrackerRemove(cmd.Context(), sel, args, partial))
		},
	}
	remove.Flags().BoolVar(&partial, "partial", false, "match substrings of announce URLs")

	cmd.AddCommand(add, remove)
	return cmd
}

func newPriorityCmd(env *cliEnv) *cobra.Command {
	var filesExpr string
	cmd := &cobra.Command{
		Use:   "priority {high|normal|low|shun}",
		Short: "Set file download priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := env.selector()
			if err != nil {
				return err
			}
			var fileSel any
			if filesExpr != "" {
				if fileSel, err = filter.NewFile(filesExpr); err != nil {
					return err
				}
			}
			tier := client.PriorityTier(args[0])
			return report(env.client.FilePriority(cmd.Context(), sel, tier, fileSel))
		},
	}
	cmd.Flags().StringVar(&filesExpr, "files", "", "file filter expression, e.g. 'name contains \".mkv\"'")
	return cmd
}
