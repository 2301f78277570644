package main

import (
	"github.com/spf13/cobra"
)

func newAddCmd(env *cliEnv) *cobra.Command {
	var (
		stopped bool
		dir     string
	)
	cmd := &cobra.Command{
		Use:   "add SOURCE...",
		Short: "Add torrents from files, magnet links, info hashes or URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed bool
			for _, source := range args {
				resp, err := env.client.Add(cmd.Context(), source, stopped, dir)
				if err := report(resp, err); err != nil {
					if err != errFailed {
						return err
					}
					failed = true
				}
			}
			if failed {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stopped, "stopped", false, "add in stopped state")
	cmd.Flags().StringVar(&dir, "dir", "", "download directory (default: daemon's)")
	return cmd
}

func newStartCmd(env *cliEnv) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start stopped torrents",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := env.selector()
			if err != nil {
				return err
			}
			return report(env.client.Start(cmd.Context(), sel, force))
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "bypass the daemon's queue")
	return cmd
}

func newStopCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop running torrents",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := env.selector()
			if err != nil {
				return err
			}
			return report(env.client.Stop(cmd.Context(), sel))
		},
	}
}

func newToggleCmd(env *cliEnv) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Stop running torrents and start stopped ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := env.selector()
			if err != nil {
				return err
			}
			return report(env.client.ToggleStopped(cmd.Context(), sel, force))
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "bypass the daemon's queue when starting")
	return cmd
}

func newVerifyCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify local data",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := env.selector()
			if err != nil {
				return err
			}
			return report(env.client.Verify(cmd.Context(), sel))
		},
	}
}

func newRemoveCmd(env *cliEnv) *cobra.Command {
	var deleteData bool
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove torrents",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := env.selector()
			if err != nil {
				return err
			}
			return report(env.client.Remove(cmd.Context(), sel, deleteData))
		},
	}
	cmd.Flags().BoolVar(&deleteData, "delete-data", false, "also delete downloaded files")
	return cmd
}

func newMoveCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "move PATH",
		Short: "Move torrents to another download directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := env.selector()
			if err != nil {
				return err
			}
			return report(env.client.Move(cmd.Context(), sel, args[0]))
		},
	}
}

func newAnnounceCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "announce",
		Short: "Re-announce to trackers immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := env.selector()
			if err != nil {
				return err
			}
			return report(env.client.Announce(cmd.Context(), sel))
		},
	}
}
