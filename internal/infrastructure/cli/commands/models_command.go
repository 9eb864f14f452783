package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/hansli-go/internal/app"
	"github.com/doeshing/hansli-go/internal/application/llm"
	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

// NewModelsCommand creates the models command with all subcommands
func NewModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect model providers and credentials",
	}

	modelsCmd.AddCommand(
		newModelsListCommand(container),
		newModelsTestCommand(container),
	)

	return modelsCmd
}

// newModelsListCommand creates the 'models list' subcommand
func newModelsListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supported providers and where their keys come from",
		RunE: func(cmd *cobra.Command, args []string) error {
			listProviders(cmd.OutOrStdout(), container)
			return nil
		},
	}
}

// newModelsTestCommand creates the 'models test' subcommand
func newModelsTestCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "test [modelname@provider]",
		Short: "Send a one-off prompt to check connectivity (defaults to the configured model)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := container.Config.Preferences.Model
			if len(args) == 1 {
				raw = args[0]
			}
			return testModel(cmd.Context(), cmd.OutOrStdout(), container, raw)
		},
	}
}

// listProviders shows every provider with its key status
func listProviders(out io.Writer, container *app.Container) {
	keys := container.Credentials.Keys()
	current := ""
	if ref, err := container.Config.ModelRef(); err == nil {
		current = string(ref.Provider)
	}

	for _, kind := range domain.ProviderKinds() {
		marker := " "
		if string(kind) == current {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-14s %s\n", marker, kind, describeKey(keys, kind))
	}
	fmt.Fprintf(out, "\nCurrent model: %s\n", container.Config.Preferences.Model)
}

// describeKey reports where a provider's key would be read from
func describeKey(keys domain.APIKeys, kind domain.ProviderKind) string {
	if !kind.RequiresKey() {
		return "no key required"
	}
	_, source := llm.ResolveAPIKey(keys, kind)
	switch source {
	case "keystore":
		return "key stored"
	case "none":
		return fmt.Sprintf("missing (run 'hansli apikey %s <key>' or set %s)", kind, kind.KeyEnvVar())
	default:
		return "key from " + source
	}
}

// testModel sends a single prompt outside any session
func testModel(ctx context.Context, out io.Writer, container *app.Container, raw string) error {
	ref, err := domain.ParseModelRef(raw)
	if err != nil {
		return err
	}

	key, _ := llm.ResolveAPIKey(container.Credentials.Keys(), ref.Provider)
	provider, err := container.Factory.ForModel(ref, key)
	if err != nil {
		return err
	}

	completion, err := provider.Complete(ctx, ports.CompletionRequest{
		Model:     ref,
		Messages:  []domain.Message{{Role: domain.RoleUser, Content: modelTestPrompt}},
		MaxTokens: container.Config.Preferences.MaxTokens,
	})
	if err != nil {
		return fmt.Errorf("model test failed for %s: %w", ref, err)
	}
	if len(completion.Choices) == 0 {
		return fmt.Errorf("model test failed for %s: empty reply", ref)
	}

	fmt.Fprintf(out, "%s (%s) replied: %s\n", ref, provider.Name(), strings.TrimSpace(completion.Choices[0].Content))
	fmt.Fprintf(out, "Tokens: %d in / %d out\n", completion.Usage.InputTokens, completion.Usage.OutputTokens)
	return nil
}
