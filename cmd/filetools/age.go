package main

import (
	"errors"
	"fmt"

	"github.com/nicad/duckdb-file-tools/internal/report"
	"github.com/spf13/cobra"
)

func ageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "age",
		Short: "Generate age keys and encrypt or decrypt files",
	}

	cmd.AddCommand(ageKeygenCmd(a))
	cmd.AddCommand(ageEncryptCmd(a))
	cmd.AddCommand(ageDecryptCmd(a))
	return cmd
}

func ageKeygenCmd(a *app) *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an X25519 key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret != "" {
				f, err := a.registry.Scalar("age_keygen_secret")
				if err != nil {
					return err
				}
				v, err := f.Call(cmd.Context(), secret)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			}

			f, err := a.registry.Scalar("age_keygen")
			if err != nil {
				return err
			}
			v, err := f.Call(cmd.Context(), 0)
			if err != nil {
				return err
			}
			kp := v.(map[string]any)
			return a.emit(&report.Table{
				Columns: []report.Column{{Name: "public_key"}, {Name: "private_key"}},
				Rows:    [][]any{{kp["public_key"], kp["private_key"]}},
			})
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Print a CREATE SECRET statement for this name instead")
	return cmd
}

func ageEncryptCmd(a *app) *cobra.Command {
	var (
		recipients []string
		passphrase string
	)

	cmd := &cobra.Command{
		Use:   "encrypt <in> <out>",
		Short: "Encrypt a file to recipients or with a passphrase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case passphrase != "" && len(recipients) > 0:
				return errors.New("--recipient and --passphrase are mutually exclusive")
			case passphrase != "":
				return a.transform(cmd, "age_encrypt_passphrase", args[0], args[1], passphrase)
			default:
				return a.transform(cmd, "age_encrypt_multi", args[0], args[1], recipients)
			}
		},
	}

	cmd.Flags().StringSliceVarP(&recipients, "recipient", "r", nil, "age1... public key or keyring secret name (repeatable)")
	cmd.Flags().StringVarP(&passphrase, "passphrase", "p", "", "Encrypt with a passphrase")
	return cmd
}

func ageDecryptCmd(a *app) *cobra.Command {
	var (
		identities []string
		passphrase string
	)

	cmd := &cobra.Command{
		Use:   "decrypt <in> <out>",
		Short: "Decrypt a file with identities or a passphrase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case passphrase != "" && len(identities) > 0:
				return errors.New("--identity and --passphrase are mutually exclusive")
			case passphrase != "":
				return a.transform(cmd, "age_decrypt_passphrase", args[0], args[1], passphrase)
			default:
				return a.transform(cmd, "age_decrypt_multi", args[0], args[1], identities)
			}
		},
	}

	cmd.Flags().StringSliceVarP(&identities, "identity", "i", nil, "AGE-SECRET-KEY-1... private key or keyring secret name (repeatable)")
	cmd.Flags().StringVarP(&passphrase, "passphrase", "p", "", "Decrypt with a passphrase")
	return cmd
}
