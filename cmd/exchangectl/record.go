package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/exchange-connect/internal/configstore"
	"github.com/nhle/exchange-connect/internal/exchange"
	"github.com/nhle/exchange-connect/internal/ui"
	"github.com/nhle/exchange-connect/internal/ui/recordform"
)

func newRecordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage stored connection records",
	}
	cmd.AddCommand(
		newRecordPutCmd(a),
		newRecordShowCmd(a),
		newRecordDeleteCmd(a),
		newRecordListCmd(a),
	)
	return cmd
}

func newRecordPutCmd(a *app) *cobra.Command {
	var (
		file        string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "put [directory] name",
		Short: "Store a connection record",
		Long: "Store a connection record read from --file, from stdin, or collected\n" +
			"with an interactive form (--interactive). The record is validated\n" +
			"before it is written.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" && interactive {
				return fmt.Errorf("--file and --interactive are mutually exclusive")
			}

			var (
				value string
				err   error
			)
			if interactive {
				value, err = promptRecord()
			} else {
				value, err = readRecord(cmd.InOrStdin(), file, a.recordOptions())
			}
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}

			dir, name := splitLocator(args)
			item := configstore.Item{Directory: a.directory(dir), Name: name, Value: value}
			if err := store.Put(cmd.Context(), item); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s/%s\n", item.Directory, item.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read the record from a file instead of stdin")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Collect the record with an interactive form")
	return cmd
}

func newRecordShowCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show [directory] name",
		Short: "Show a stored connection record",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}

			dir, name := splitLocator(args)
			item, err := store.Lookup(cmd.Context(), a.directory(dir), name)
			if err != nil {
				return err
			}

			if raw {
				fmt.Fprint(cmd.OutOrStdout(), item.Value)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderItems([]configstore.Item{*item}, a.recordOptions()...))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the stored record verbatim, including the password")
	return cmd
}

func newRecordDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [directory] name",
		Short: "Delete a stored connection record",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}

			dir, name := splitLocator(args)
			dir = a.directory(dir)
			if err := store.Delete(cmd.Context(), dir, name); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s/%s\n", dir, name)
			return nil
		},
	}
}

func newRecordListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [directory]",
		Short: "List stored connection records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}

			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			items, err := store.List(cmd.Context(), a.directory(dir))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderItems(items, a.recordOptions()...))
			return nil
		},
	}
}

// readRecord reads a record from path, or from stdin when path is empty,
// and checks that it parses.
func readRecord(stdin io.Reader, path string, opts []exchange.RecordOption) (string, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", fmt.Errorf("reading record: %w", err)
	}

	if _, err := exchange.ParseRecord(string(data), opts...); err != nil {
		return "", err
	}
	return string(data), nil
}

func promptRecord() (string, error) {
	var v recordform.Values
	if err := recordform.New(&v).Run(); err != nil {
		return "", fmt.Errorf("running record form: %w", err)
	}

	cfg, err := v.Config()
	if err != nil {
		return "", err
	}
	return exchange.FormatRecord(cfg), nil
}
