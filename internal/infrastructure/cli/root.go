package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/hansli-go/internal/app"
	"github.com/doeshing/hansli-go/internal/infrastructure/cli/commands"
	"github.com/doeshing/hansli-go/internal/ports"
)

// Options holds CLI-level configuration.
type Options struct {
	Debug bool
}

// NewRootCmd wires the cobra root command. The returned container must be
// closed by the caller on every exit path.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, *app.Container, error) {
	container, err := app.BuildContainer(ctx, app.Options{Debug: opts.Debug})
	if err != nil {
		return nil, nil, err
	}
	container.Renderer = NewMarkdownRenderer(os.Stdout)
	container.DecorateSessions = func(opener ports.SessionOpener) ports.SessionOpener {
		return WithSpinner(opener, os.Stderr)
	}

	root := &cobra.Command{
		Use:   "hansli",
		Short: "hansli - run commands and let a model fix or improve their inputs",
		Long: "hansli runs configured commands on input files. When a run fails, --autofix sends\n" +
			"the transcript to a language model, writes the corrected files back and retries.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// Parsed before the container exists; main inspects os.Args for it.
	root.PersistentFlags().Bool("debug", opts.Debug, "Enable debug logging (also HANSLI_DEBUG=1)")

	root.AddCommand(
		commands.NewRunCommand(container),
		commands.NewAPIKeyCommand(container),
		commands.NewChatCommand(container),
		commands.NewSessionCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewConfigCommand(container),
		commands.NewModelsCommand(container),
		commands.NewInitCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	return root, container, nil
}
