package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/exchange-connect/internal/credential"
)

func newSecretCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage keyring secrets referenced as keyring:<key> passwords",
	}
	cmd.AddCommand(
		newSecretSetCmd(a),
		newSecretDeleteCmd(a),
	)
	return cmd
}

func newSecretSetCmd(a *app) *cobra.Command {
	var prompt bool

	cmd := &cobra.Command{
		Use:   "set key",
		Short: "Store a secret in the keyring",
		Long: "Store a secret read from stdin, or typed at a masked prompt with\n" +
			"--prompt. Records and profiles use it with the password keyring:<key>.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if strings.TrimSpace(key) == "" {
				return fmt.Errorf("secret key is required")
			}

			var (
				value string
				err   error
			)
			if prompt {
				value, err = promptSecret(key)
			} else {
				value, err = readSecret(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			if value == "" {
				return fmt.Errorf("secret for %q is empty", key)
			}

			r, err := a.resolver()
			if err != nil {
				return err
			}
			if err := r.Set(key, value); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored secret; use password %s\n", credential.RefFor(key))
			return nil
		},
	}

	cmd.Flags().BoolVar(&prompt, "prompt", false, "Type the secret at a masked prompt")
	return cmd
}

func newSecretDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete key",
		Short: "Remove a secret from the keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.resolver()
			if err != nil {
				return err
			}
			if err := r.Delete(args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted secret %s\n", args[0])
			return nil
		},
	}
}

// readSecret reads the secret from r, dropping one trailing line ending.
func readSecret(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

func promptSecret(key string) (string, error) {
	var value string
	err := huh.NewInput().
		Title("Secret for " + key).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Run()
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return value, nil
}
