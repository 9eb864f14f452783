package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/hansli-go/internal/domain"
)

type staticConfig struct {
	cfg domain.Config
	err error
}

func (s staticConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

type staticKeys domain.APIKeys

func (k staticKeys) Keys() domain.APIKeys     { return domain.APIKeys(k) }
func (k staticKeys) SetAPIKey(string, string) {}
func (k staticKeys) Save() error              { return nil }

type staticPreprompts map[string]string

func (p staticPreprompts) Preprompt(name string) (string, error) {
	text, ok := p[name]
	if !ok {
		return "", errors.New("missing")
	}
	return text, nil
}

func statusOf(report domain.HealthReport, name string) domain.HealthStatus {
	for _, check := range report.Checks {
		if check.Name == name {
			return check.Status
		}
	}
	return ""
}

func healthyService() *Service {
	cfg := domain.Config{
		ConfigFormatVersion: "1",
		Preferences:         domain.Preferences{Model: "gpt-4o-mini@openai.com"},
		Execution:           domain.ExecutionSettings{Shell: "/bin/sh"},
		Commands:            domain.CommandTable{"build": {Shell: "cc %(input)s -o %(output)s"}},
	}
	return &Service{
		ConfigProvider: staticConfig{cfg: cfg},
		Commands: func(cfg domain.Config) (domain.CommandTable, string, error) {
			return cfg.Commands, "config", nil
		},
		Credentials: staticKeys{"openai.com": "sk"},
		Preprompts:  staticPreprompts{"autofix": "a", "autoimprove": "b", "mychat": "c"},
		LookPath:    func(name string) (string, error) { return name, nil },
	}
}

func TestDoctorHealthy(t *testing.T) {
	report, err := healthyService().Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Failed())
	for _, name := range []string{"Config file", "Commands", "Shell", "Model", "API key", "Preprompts"} {
		assert.Equal(t, domain.HealthOK, statusOf(report, name), name)
	}
}

func TestDoctorFlagsProblems(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	svc := healthyService()
	svc.Credentials = staticKeys{}
	svc.LookPath = func(string) (string, error) { return "", errors.New("not found") }
	svc.Commands = func(domain.Config) (domain.CommandTable, string, error) {
		return domain.CommandTable{"a": {Shell: "x", Requires: "b"}, "b": {Shell: "y", Requires: "a"}}, "hansli.yaml", nil
	}
	svc.Preprompts = staticPreprompts{}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Failed())
	assert.Equal(t, domain.HealthError, statusOf(report, "Commands"))
	assert.Equal(t, domain.HealthError, statusOf(report, "Shell"))
	assert.Equal(t, domain.HealthWarn, statusOf(report, "API key"))
	assert.Equal(t, domain.HealthError, statusOf(report, "Preprompts"))
}

func TestDoctorConfigFailure(t *testing.T) {
	svc := &Service{ConfigProvider: staticConfig{err: errors.New("bad yaml")}}
	report, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.HealthError, statusOf(report, "Config file"))
}

func TestDoctorOllamaNeedsNoKey(t *testing.T) {
	svc := healthyService()
	svc.ConfigProvider = staticConfig{cfg: domain.Config{Preferences: domain.Preferences{Model: "llama3@ollama"}}}
	svc.Credentials = staticKeys{}
	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.HealthOK, statusOf(report, "API key"))
}
