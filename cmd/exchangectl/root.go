package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/99designs/keyring"
	"github.com/spf13/cobra"

	"github.com/nhle/exchange-connect/internal/configstore"
	"github.com/nhle/exchange-connect/internal/credential"
	"github.com/nhle/exchange-connect/internal/exchange"
	"github.com/nhle/exchange-connect/internal/logging"
	"github.com/nhle/exchange-connect/internal/model"
)

// app carries state shared by subcommands for a single invocation.
type app struct {
	configPath string
	debug      bool
	strict     bool

	// openKeyring opens the keyring holding referenced secrets.
	openKeyring func(model.KeyringConfig) (keyring.Keyring, error)

	cfg     *model.AppConfig
	logger  *slog.Logger
	store   configstore.WritableStore
	secrets *credential.Resolver
	closers []io.Closer
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{openKeyring: credential.Open}

	rootCmd := &cobra.Command{
		Use:           "exchangectl",
		Short:         "exchangectl - build Exchange Web Services connections",
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", model.DefaultConfigPath(), "Path to the config file")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.strict, "strict", false, "Reject records with content after their last field")

	rootCmd.AddCommand(
		newConnectCmd(a),
		newRecordCmd(a),
		newSecretCmd(a),
		newVersionsCmd(),
	)
	return rootCmd, a
}

func versionString() string {
	if commit != "" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return version
}

func (a *app) init() error {
	cfg, err := model.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Log.Level = "debug"
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.closers = append(a.closers, closer)
	return nil
}

// openStore opens the configured store on first use.
func (a *app) openStore() (configstore.WritableStore, error) {
	if a.store != nil {
		return a.store, nil
	}

	s, closer, err := configstore.Open(a.cfg.Store, a.cfg.Keyring)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("opened configuration store", slog.String("backend", a.cfg.Store.Backend))

	a.store = s
	a.closers = append(a.closers, closer)
	return s, nil
}

func (a *app) connector(opts ...exchange.Option) *exchange.Connector {
	opts = append(opts,
		exchange.WithLogger(a.logger),
		exchange.WithPasswordResolver(exchange.PasswordResolverFunc(a.resolvePassword)),
	)
	if a.strict {
		opts = append(opts, exchange.WithStrictRecords())
	}
	return exchange.NewConnector(opts...)
}

// recordOptions returns the parse options selected by the root flags.
func (a *app) recordOptions() []exchange.RecordOption {
	if a.strict {
		return []exchange.RecordOption{exchange.StrictRecord()}
	}
	return nil
}

// resolver opens the keyring on first use.
func (a *app) resolver() (*credential.Resolver, error) {
	if a.secrets != nil {
		return a.secrets, nil
	}

	ring, err := a.openKeyring(a.cfg.Keyring)
	if err != nil {
		return nil, err
	}
	a.secrets = credential.NewResolver(ring)
	return a.secrets, nil
}

// resolvePassword expands keyring references. Literal passwords never
// open the keyring.
func (a *app) resolvePassword(raw string) (string, error) {
	if _, ok := credential.Ref(raw); !ok {
		return raw, nil
	}
	r, err := a.resolver()
	if err != nil {
		return "", err
	}
	return r.ResolvePassword(raw)
}

// directory returns dir, or the configured default when dir is empty.
func (a *app) directory(dir string) string {
	if dir == "" {
		return a.cfg.Store.Directory
	}
	return dir
}

// close releases the store and log file. It is safe to call when init
// never ran.
func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	a.store = nil
	return errors.Join(errs...)
}
