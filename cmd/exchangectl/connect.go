package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nhle/exchange-connect/internal/ews"
	"github.com/nhle/exchange-connect/internal/exchange"
	"github.com/nhle/exchange-connect/internal/ui"
)

func newConnectCmd(a *app) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "connect [directory] name",
		Short: "Build a connection from a stored record or a profile",
		Long: "Build a connection from the stored record name in directory, or from\n" +
			"the named profile with --profile. The directory defaults to\n" +
			"store.directory from the config file.",
		Args: func(cmd *cobra.Command, args []string) error {
			if profile != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				svc   *ews.Service
				title string
				err   error
			)
			if profile != "" {
				svc, err = a.connectProfile(cmd, profile)
				title = "profile " + profile
			} else {
				dir, name := splitLocator(args)
				dir = a.directory(dir)
				store, serr := a.openStore()
				if serr != nil {
					return serr
				}
				svc, err = a.connector(exchange.WithStore(store)).FromStore(cmd.Context(), dir, name)
				title = dir + "/" + name
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderService(title, svc))
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Connect using a profile from the config file")
	return cmd
}

func (a *app) connectProfile(cmd *cobra.Command, name string) (*ews.Service, error) {
	p, ok := a.cfg.Profile(name)
	if !ok {
		return nil, fmt.Errorf("profile %q not found in %s", name, a.configPath)
	}

	a.logger.Debug("connecting with profile",
		slog.String("profile", p.Name),
		slog.Bool("auto_detect", p.AutoDetect),
	)

	var opts []exchange.ArgOption
	if p.Domain != "" {
		opts = append(opts, exchange.WithDomain(p.Domain))
	}
	return a.connector().FromArgs(cmd.Context(),
		p.Version, p.Address, p.Username, p.Password, p.AutoDetect, opts...)
}

// splitLocator maps one or two positional arguments onto directory and
// name. A single argument is the name.
func splitLocator(args []string) (dir, name string) {
	if len(args) == 1 {
		return "", args[0]
	}
	return args[0], args[1]
}
