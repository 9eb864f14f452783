package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/hansli-go/internal/app"
	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/infrastructure/cli/helpers"
	"github.com/doeshing/hansli-go/internal/ports"
)

const chatPrompt = ">> "

// NewChatCommand creates the interactive chat command
func NewChatCommand(container *app.Container) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the model in a persistent session",
		Long:  "Start an interactive conversation. An empty line ends the session; the history is kept for next time.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, container, session)
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", domain.SessionChat, "Session name")
	return cmd
}

// runChat replays the stored conversation and then reads prompts until an empty line
func runChat(cmd *cobra.Command, container *app.Container, name string) error {
	ctx := cmd.Context()
	session, err := container.SessionOpener().Open(ctx, name)
	if err != nil {
		return err
	}

	renderer := chatRenderer(cmd, container)
	if container.Sessions != nil {
		stored, err := container.Sessions.Session(ctx, name)
		if err != nil {
			return err
		}
		renderer.Markdown(formatConversation(stored.Snapshot().Messages))
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	for {
		line, err := helpers.ReadLine(out, reader, chatPrompt)
		if err != nil || strings.TrimSpace(line) == "" {
			return nil
		}
		reply, err := session.Chat(ctx, line)
		if err != nil {
			return err
		}
		renderer.Markdown(reply)
	}
}

// formatConversation renders a message history as Markdown
func formatConversation(messages []domain.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case domain.RoleUser:
			b.WriteString("**>>** ")
		case domain.RoleAssistant:
		default:
			fmt.Fprintf(&b, "**[%s]** ", msg.Role)
		}
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}

func chatRenderer(cmd *cobra.Command, container *app.Container) ports.Renderer {
	if container.Renderer != nil {
		return container.Renderer
	}
	return plainRenderer{cmd: cmd}
}

type plainRenderer struct {
	cmd *cobra.Command
}

func (p plainRenderer) Markdown(md string) {
	fmt.Fprintln(p.cmd.OutOrStdout(), strings.TrimRight(md, "\n"))
}
