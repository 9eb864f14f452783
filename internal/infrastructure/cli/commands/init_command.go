package commands

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/hansli-go/internal/app"
	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/hansli-go/internal/infrastructure/config"
)

// NewInitCommand creates the init command.
// It writes a project command table to ./hansli.yaml, seeded from the
// commands block of the user configuration.
func NewInitCommand(container *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a hansli.yaml command table in the current directory",
		Long: `Create hansli.yaml in the current directory.

The file is seeded with the commands from ~/.hansli/config.yaml and takes
precedence over them for runs started in this directory. Example:

  commands:
    build:
      shell: cc %(input)s -o %(output)s
    run:
      shell: ./%(input)s
      requires: build
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, container, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing hansli.yaml without prompting")
	return cmd
}

// runInit writes the project command table
func runInit(cmd *cobra.Command, container *app.Container, force bool) error {
	out := cmd.OutOrStdout()
	path := configinfra.ProjectCommandsFile

	if _, err := os.Stat(path); err == nil && !force {
		reader := bufio.NewReader(cmd.InOrStdin())
		if !helpers.PromptForConfirmation(out, reader, fmt.Sprintf("%s exists. Overwrite?", path)) {
			fmt.Fprintln(out, MsgInitCancelled)
			return nil
		}
	}

	table := container.Config.Commands
	if err := table.Validate(); err != nil {
		return fmt.Errorf("configured commands are invalid: %w", err)
	}

	data, err := yaml.Marshal(domain.CommandsDocument{Commands: table})
	if err != nil {
		return fmt.Errorf("failed to marshal commands: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(out, "Wrote %d command(s) to %s\n", len(table), path)
	return nil
}
