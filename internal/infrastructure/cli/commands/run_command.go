package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/hansli-go/internal/app"
	"github.com/doeshing/hansli-go/internal/application/feedback"
	"github.com/doeshing/hansli-go/internal/domain"
)

// runFlags holds the flags of the run command.
type runFlags struct {
	autofix     bool
	autoimprove bool
	verbose     bool
	maxAttempts int
	commands    string
}

// NewRunCommand creates the run command
func NewRunCommand(container *app.Container) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <command> <input>",
		Short: "Run a configured command on an input file",
		Long: "Run a configured command (and the commands it requires) on an input file.\n" +
			"With --autofix a failing run is sent to the model and the corrected files are\n" +
			"written back before retrying. With --autoimprove the model rewrites the input\n" +
			"after the run.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-attempts") {
				flags.maxAttempts = container.Config.MaxAttempts()
			}
			return runCommand(cmd, container, args[0], args[1], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.autofix, "autofix", false, "Ask the model to fix the input when the command fails")
	cmd.Flags().BoolVar(&flags.autoimprove, "autoimprove", false, "Ask the model to improve the input after the run")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Stream command output and show transcripts")
	cmd.Flags().IntVar(&flags.maxAttempts, "max-attempts", domain.DefaultMaxAttempts, "Maximum model calls during autofix")
	cmd.Flags().StringVar(&flags.commands, "commands", "", "Command table file (default: ./hansli.yaml, then config)")
	return cmd
}

// runCommand executes the run command
func runCommand(cmd *cobra.Command, container *app.Container, command, input string, flags runFlags) error {
	service, err := container.Feedback(flags.commands)
	if err != nil {
		return err
	}

	report, err := service.Run(cmd.Context(), feedback.Request{
		Command:     command,
		Input:       input,
		Verbose:     flags.verbose,
		Autofix:     flags.autofix,
		Autoimprove: flags.autoimprove,
		MaxAttempts: flags.maxAttempts,
	})
	displayRunReport(cmd.OutOrStdout(), report, flags, err)
	return err
}

// displayRunReport lists the files the model rewrote
func displayRunReport(out io.Writer, report feedback.Report, flags runFlags, runErr error) {
	for _, change := range report.Corrected {
		fmt.Fprintf(out, "Corrected %s\n", change.Path)
	}
	if flags.autofix && report.ModelCalls > 0 && report.Succeeded() {
		fmt.Fprintf(out, "Fixed after %d model call(s).\n", report.ModelCalls)
	}
	for _, change := range report.Improved {
		fmt.Fprintf(out, "Improved %s\n", change.Path)
	}
	var failed *domain.CommandFailedError
	reachedModel := runErr == nil || errors.As(runErr, &failed)
	if flags.autoimprove && reachedModel && len(report.Improved) == 0 {
		fmt.Fprintln(out, MsgNothingToImprove)
	}
}
