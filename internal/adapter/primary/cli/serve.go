package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"audioctl/internal/adapter/primary/web"
	"audioctl/internal/domain"
	"audioctl/internal/logging"
	"audioctl/internal/usecase"
)

// enforceFlags overrides the enforcer settings from the preferences file.
type enforceFlags struct {
	device      string
	volume      int
	interval    time.Duration
	keepUnmuted bool
}

func (f *enforceFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.device, "device", "", "device to enforce (speaker or mic)")
	fs.IntVar(&f.volume, "volume", 0, "target volume 0-100")
	fs.DurationVar(&f.interval, "interval", 0, "re-apply interval, e.g. 45s, 2m")
	fs.BoolVar(&f.keepUnmuted, "keep-unmuted", false, "unmute the device when it is found muted")
}

func (f *enforceFlags) apply(fs *pflag.FlagSet, cfg domain.EnforceConfig) (domain.EnforceConfig, error) {
	if fs.Changed("device") {
		d, err := domain.ParseDevice(f.device)
		if err != nil {
			return cfg, err
		}
		cfg.Device = d
	}
	if fs.Changed("volume") {
		cfg.TargetVolume = f.volume
	}
	if fs.Changed("interval") {
		cfg.Interval = f.interval
	}
	if fs.Changed("keep-unmuted") {
		cfg.KeepUnmuted = f.keepUnmuted
	}
	return cfg, cfg.Validate()
}

// newEnforcer builds the enforcer from preferences and flags. The caller
// decides whether to start its loop.
func (a *app) newEnforcer(cmd *cobra.Command, f *enforceFlags, controller domain.Controller, force bool) (usecase.EnforcerUseCase, error) {
	cfg, err := a.cfg.Enforce()
	if err != nil {
		return nil, err
	}
	if cfg, err = f.apply(cmd.Flags(), cfg); err != nil {
		return nil, err
	}
	if force {
		cfg.Enabled = true
	}
	return usecase.NewEnforcerUseCase(controller, cfg)
}

func newEnforceCmd(a *app) *cobra.Command {
	var f enforceFlags
	cmd := &cobra.Command{
		Use:   "enforce",
		Short: "Keep re-applying the target volume until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			res, _, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer res.Close()

			uc, err := a.newEnforcer(cmd, &f, res.Controller, true)
			if err != nil {
				return err
			}
			uc.Start(ctx)
			cfg := uc.GetSnapshot().Config
			fmt.Fprintf(cmd.OutOrStdout(), "Enforcing %s at %d%% every %s\n", cfg.Device, cfg.TargetVolume, cfg.Interval)
			logging.Infof("enforcer started on %s", res.Selection)

			<-ctx.Done()
			fmt.Fprintln(cmd.OutOrStdout(), "Enforcer shutting down...")
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var (
		f         enforceFlags
		addr      string
		noEnforce bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the enforcer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			res, audio, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer res.Close()

			enforcer, err := a.newEnforcer(cmd, &f, res.Controller, false)
			if err != nil {
				return err
			}
			// Without the loop the enforcer still answers API calls.
			if !noEnforce {
				enforcer.Start(ctx)
			}

			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Addr
			}
			srv := web.NewServer(audio, enforcer, addr)
			fmt.Fprintf(cmd.OutOrStdout(), "audioctl API running at http://%s\n", addr)
			logging.Infof("HTTP API: http://%s (%s)", addr, res.Selection)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			if err := srv.Start(); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default from preferences)")
	cmd.Flags().BoolVar(&noEnforce, "no-enforce", false, "serve the API without running the enforcer loop")
	return cmd
}
