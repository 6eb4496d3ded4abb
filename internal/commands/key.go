package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/helper-kust/internal/adapters/secret"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the API key stored in the OS keyring",
}

var keySetCmd = &cobra.Command{
	Use:   "set [api-key]",
	Short: "Store the Gemini API key in the OS keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value := strings.TrimSpace(args[0])
		if value == "" {
			return errors.New("api key is empty")
		}
		if err := secret.NewKeyringProvider().Set(secret.APIKeyName, value); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API key stored in keyring.")
		return nil
	},
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether an API key is available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := secret.ResolveAPIKey(loadConfig().APIKey, secret.NewKeyringProvider())
		switch {
		case errors.Is(err, secret.ErrSecretNotFound):
			fmt.Fprintln(cmd.OutOrStdout(), "No API key configured.")
			return nil
		case err != nil:
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API key configured.")
		return nil
	},
}

var keyRmCmd = &cobra.Command{
	Use:     "rm",
	Aliases: []string{"delete"},
	Short:   "Remove the API key from the OS keyring",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := secret.NewKeyringProvider().Delete(secret.APIKeyName)
		if err != nil && !errors.Is(err, secret.ErrSecretNotFound) {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API key removed from keyring.")
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyStatusCmd)
	keyCmd.AddCommand(keyRmCmd)
}
