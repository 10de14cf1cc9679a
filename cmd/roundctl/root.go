package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tecu23/roundctl/pkg/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Debug      bool
	EnvFile    string
	TimingFile string
}

// NewRootCommand creates the root command of the round client.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "roundctl",
		Short: "roundctl - play a chess round from the terminal",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing env file is fine, the environment may be set already
			if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("loading env file: %w", err)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "environment file")
	cmd.PersistentFlags().StringVar(&opts.TimingFile, "timing", "", "YAML file overriding clock and socket timing")

	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewTimingCommand(opts))

	return cmd
}

// NewTimingCommand prints the effective timing policy.
func NewTimingCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "timing",
		Short: "Print the effective timing policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			timing, err := config.LoadTiming(rootOpts.TimingFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "clock tick:                   %s\n", timing.ClockTick)
			fmt.Fprintf(out, "correspondence tick:          %s\n", timing.CorrespondenceTick)
			fmt.Fprintf(out, "player outoftime cooldown:    %s\n", timing.PlayerOutOfTimeCooldown)
			fmt.Fprintf(out, "spectator outoftime cooldown: %s\n", timing.SpectatorOutOfTimeCooldown)
			fmt.Fprintf(out, "ping interval:                %s\n", timing.PingInterval)
			fmt.Fprintf(out, "ack resend:                   %s\n", timing.AckResend)
			return nil
		},
	}
}
