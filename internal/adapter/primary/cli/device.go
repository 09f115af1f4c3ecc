package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"audioctl/internal/domain"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <speaker|mic>",
		Short: "Print the device volume (0-100)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDeviceArg(args)
			if err != nil {
				return err
			}
			res, uc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer res.Close()

			v, err := uc.Get(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <speaker|mic> <volume>",
		Short: "Set the device volume; values are rounded and clamped to 0-100",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDeviceArg(args)
			if err != nil {
				return err
			}
			raw, err := domain.ParseVolumeArg(args[1])
			if err != nil {
				return err
			}
			res, uc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer res.Close()

			if err := uc.Set(cmd.Context(), d, raw); err != nil {
				return err
			}
			v, err := uc.Get(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s volume: %d\n", d, v)
			return nil
		},
	}
}

func newMuteCmd(a *app, mute bool) *cobra.Command {
	use, short := "mute", "Mute the device"
	if !mute {
		use, short = "unmute", "Unmute the device"
	}
	return &cobra.Command{
		Use:   use + " <speaker|mic>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDeviceArg(args)
			if err != nil {
				return err
			}
			res, uc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer res.Close()

			if mute {
				err = uc.Mute(cmd.Context(), d)
			} else {
				err = uc.Unmute(cmd.Context(), d)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %sd\n", d, use)
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status [speaker|mic]",
		Short: "Print volume and mute state of one or both devices",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			devices := domain.Devices
			if len(args) == 1 {
				d, err := parseDeviceArg(args)
				if err != nil {
					return err
				}
				devices = []domain.Device{d}
			}
			res, uc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer res.Close()

			var (
				firstErr error
				ok       int
			)
			for _, d := range devices {
				st, err := uc.Status(cmd.Context(), d)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%-8s error: %v\n", d, err)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				state := "unmuted"
				if st.Muted {
					state = "muted"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %3d%% %s\n", d, st.Volume, state)
				ok++
			}
			if ok == 0 {
				return firstErr
			}
			return nil
		},
	}
}

func newBackendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backend",
		Short: "Show which audio backend was selected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, uc, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer res.Close()

			info := uc.Backend()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", info.Platform, info.Selection)
			return nil
		},
	}
}
