package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/hansli-go/internal/app"
	"github.com/doeshing/hansli-go/internal/domain"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, commands, shell, model credentials and preprompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctorDiagnostics(cmd, container)
		},
	}
}

// runDoctorDiagnostics prints every check and fails when any check errored
func runDoctorDiagnostics(cmd *cobra.Command, container *app.Container) error {
	if container.DoctorService == nil {
		return fmt.Errorf(ErrDoctorServiceUnavailable)
	}

	report, err := container.DoctorService.Run(cmd.Context())
	displayDoctorReport(cmd.OutOrStdout(), report)
	if err != nil {
		return fmt.Errorf("diagnostics aborted: %w", err)
	}
	if report.Failed() {
		return fmt.Errorf("%d check(s) failed", countStatus(report, domain.HealthError))
	}
	return nil
}

// displayDoctorReport displays the health check report and a summary line
func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
	fmt.Fprintf(out, "\n%d ok, %d warning(s), %d error(s)\n",
		countStatus(report, domain.HealthOK),
		countStatus(report, domain.HealthWarn),
		countStatus(report, domain.HealthError))
}

func countStatus(report domain.HealthReport, status domain.HealthStatus) int {
	n := 0
	for _, check := range report.Checks {
		if check.Status == status {
			n++
		}
	}
	return n
}
