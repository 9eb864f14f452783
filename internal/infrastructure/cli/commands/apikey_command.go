package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/hansli-go/internal/app"
)

// NewAPIKeyCommand creates the apikey command
func NewAPIKeyCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "apikey <provider> [value]",
		Short: "Set or clear the API key for a provider",
		Long: "Store an API key for a provider such as openai.com, anthropic.com or google.com.\n" +
			"Omitting the value removes the stored key.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			return setAPIKey(cmd.OutOrStdout(), container, args[0], value)
		},
	}
}

// setAPIKey updates the credential store and writes it immediately
func setAPIKey(out io.Writer, container *app.Container, provider, value string) error {
	container.Credentials.SetAPIKey(provider, value)
	if err := container.Credentials.Save(); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	if value == "" {
		fmt.Fprintf(out, "API key for %s removed.\n", provider)
		return nil
	}
	fmt.Fprintf(out, "API key for %s saved to %s\n", provider, container.Credentials.Path())
	return nil
}
