package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"audioctl/internal/adapter/secondary/platform"
	"audioctl/internal/adapter/secondary/repository"
	"audioctl/internal/config"
	"audioctl/internal/domain"
	"audioctl/internal/logging"
	"audioctl/internal/usecase"
)

// app carries flag values and test hooks across commands. The interactive
// shell reuses one app for every line it runs.
type app struct {
	cfgPath   string
	verbosity int
	backend   string
	logLevel  string

	goos     string
	platform platform.Options
	inShell  bool

	cfg config.Config
}

// NewRootCmd creates the root CLI command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{goos: runtime.GOOS})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "audioctl",
		Short:         "Read and set speaker and microphone volume",
		Long:          "audioctl controls the default output and input devices through the best backend available on this system.",
		SilenceUsage:  true,
		SilenceErrors: a.inShell,
	}

	// Defaults come from a so shell lines inherit the flags the shell was started with.
	if a.cfgPath == "" {
		a.cfgPath = config.DefaultPath()
	}
	cmd.PersistentFlags().StringVar(&a.cfgPath, "config", a.cfgPath, "preferences file path")
	cmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "increase logging (-v, -vv, ... up to 4)")
	cmd.PersistentFlags().StringVar(&a.backend, "backend", a.backend, "force a Linux backend: auto, native, pactl, amixer")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: error, warn, info, debug, trace")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup(cmd)
	}

	cmd.AddCommand(
		newGetCmd(a),
		newSetCmd(a),
		newMuteCmd(a, true),
		newMuteCmd(a, false),
		newStatusCmd(a),
		newBackendCmd(a),
		newEnforceCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newShellCmd(a),
	)
	return cmd
}

// setup loads preferences and applies logging flags. Flags win over the
// environment, which wins over the file.
func (a *app) setup(cmd *cobra.Command) error {
	repo, err := repository.NewFileRepository(a.cfgPath)
	if err != nil {
		return err
	}
	cfg, err := repo.Load()
	if err != nil {
		return err
	}
	cfg, err = config.Overlay(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Backend = a.backend
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	switch {
	case cmd.Flags().Changed("verbose"):
		logging.SetVerbosity(a.verbosity)
	case cmd.Flags().Changed("log-level") || !a.inShell:
		if err := logging.SetLevel(cfg.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// open resolves the platform adapter for this invocation.
func (a *app) open(ctx context.Context) (*platform.Resolution, usecase.AudioUseCase, error) {
	kind, forced, err := a.cfg.BackendKind()
	if err != nil {
		return nil, nil, err
	}
	opts := a.platform
	opts.AddonPaths = append(append([]string(nil), a.cfg.AddonPaths...), opts.AddonPaths...)
	if forced {
		opts.Backend = kind
		opts.ForceBackend = true
	}

	res := platform.Resolve(ctx, a.goos, opts)
	logging.Infof("platform %s, backend %s", res.Platform, res.Selection)
	uc := usecase.NewAudioUseCase(usecase.BackendInfo{
		Platform:  res.Platform,
		Selection: res.Selection,
	}, res.Controller)
	return res, uc, nil
}

func parseDeviceArg(args []string) (domain.Device, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: specify speaker or mic", domain.ErrUnknownDevice)
	}
	return domain.ParseDevice(args[0])
}
