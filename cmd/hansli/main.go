package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/hansli-go/internal/infrastructure/cli"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	opts := cli.Options{Debug: isDebug(os.Args[1:])}

	root, container, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		printError(err)
		return 1
	}

	code := 0
	if err := root.ExecuteContext(ctx); err != nil {
		printError(err)
		code = 1
	}
	if err := container.Close(); err != nil {
		printError(err)
		code = 1
	}
	return code
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
}

// isDebug reports whether debug logging was requested before flags are parsed.
// It only inspects --debug; run --verbose is an unrelated output flag.
func isDebug(args []string) bool {
	for _, arg := range args {
		if arg == "--debug" || arg == "--debug=true" {
			return true
		}
	}
	debug := os.Getenv("HANSLI_DEBUG")
	return strings.EqualFold(debug, "1") || strings.EqualFold(debug, "true")
}
