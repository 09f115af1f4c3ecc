package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"audioctl/internal/adapter/secondary/repository"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update the preferences file",
	}
	cmd.AddCommand(newConfigGetCmd(a), newConfigSetCmd(a))
	return cmd
}

func newConfigGetCmd(a *app) *cobra.Command {
	var effective bool
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the preferences (JSON)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if !effective {
				repo, err := repository.NewFileRepository(a.cfgPath)
				if err != nil {
					return err
				}
				if cfg, err = repo.Load(); err != nil {
					return err
				}
			}
			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&effective, "effective", false, "include environment and flag overrides")
	return cmd
}

func newConfigSetCmd(a *app) *cobra.Command {
	var (
		f          enforceFlags
		backend    string
		logLevel   string
		addr       string
		addonPaths []string
		enabled    string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the preferences file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(a.cfgPath)
			if err != nil {
				return err
			}
			cfg, err := repo.Load()
			if err != nil {
				return err
			}

			fs := cmd.Flags()
			if fs.Changed("set-backend") {
				cfg.Backend = backend
			}
			if fs.Changed("set-log-level") {
				cfg.LogLevel = logLevel
			}
			if fs.Changed("addr") {
				cfg.Addr = addr
			}
			if fs.Changed("addon-path") {
				cfg.AddonPaths = addonPaths
			}

			e, err := cfg.Enforce()
			if err != nil {
				return err
			}
			if e, err = f.apply(fs, e); err != nil {
				return err
			}
			if fs.Changed("enabled") {
				switch enabled {
				case "true":
					e.Enabled = true
				case "false":
					e.Enabled = false
				default:
					return errors.New("--enabled takes true or false")
				}
			}
			cfg = cfg.WithEnforce(e)

			if err := repo.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s: backend=%s enforce=%s@%d%% every %ds enabled=%t\n",
				repo.Path(), cfg.Backend, cfg.EnforceDevice, cfg.EnforceVolume, cfg.EnforceIntervalSeconds, cfg.EnforceEnabled)
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().StringVar(&backend, "set-backend", "", "backend to store: auto, native, pactl, amixer")
	cmd.Flags().StringVar(&logLevel, "set-log-level", "", "log level to store")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address")
	cmd.Flags().StringSliceVar(&addonPaths, "addon-path", nil, "native addon search directories (repeatable)")
	cmd.Flags().StringVar(&enabled, "enabled", "", "true/false turns the enforcer on or off")
	return cmd
}
