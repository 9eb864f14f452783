package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/hansli-go/internal/app"
)

// NewSessionCommand creates the session command with all subcommands
func NewSessionCommand(container *app.Container) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or reset stored model sessions",
	}

	sessionCmd.AddCommand(
		newSessionShowCommand(container),
		newSessionResetCommand(container),
	)

	return sessionCmd
}

// newSessionShowCommand creates the 'session show' subcommand
func newSessionShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a session's messages and token counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSession(cmd.OutOrStdout(), container, args[0])
		},
	}
}

// newSessionResetCommand creates the 'session reset' subcommand
func newSessionResetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <name>",
		Short: "Forget a session's history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetSession(cmd.OutOrStdout(), container, args[0])
		},
	}
}

// showSession prints the persisted conversation without contacting a model
func showSession(out io.Writer, container *app.Container, name string) error {
	conv, err := container.Conversations.LoadConversation(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Session: %s\n", conv.Name)
	fmt.Fprintf(out, "Messages: %d\n", len(conv.Messages))
	fmt.Fprintf(out, "Tokens: %d in / %d out / %d total\n", conv.TokensInput, conv.TokensOutput, conv.TokensTotal)
	if len(conv.Messages) > 0 {
		fmt.Fprintln(out)
		fmt.Fprint(out, formatConversation(conv.Messages))
	}
	return nil
}

// resetSession deletes the session from memory and disk
func resetSession(out io.Writer, container *app.Container, name string) error {
	var err error
	if container.Sessions != nil {
		err = container.Sessions.Reset(name)
	} else {
		err = container.Conversations.DeleteConversation(name)
	}
	if err != nil {
		return fmt.Errorf("failed to reset session %s: %w", name, err)
	}

	fmt.Fprintf(out, "Session %s reset.\n", name)
	return nil
}
