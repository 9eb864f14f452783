// Package feedback runs commands and, on request, feeds their transcripts to a
// model session to fix or improve the files involved.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

// Request describes one `run` invocation.
type Request struct {
	Command     string
	Input       string
	Verbose     bool
	Autofix     bool
	Autoimprove bool
	MaxAttempts int
}

// Report summarizes what a run did.
type Report struct {
	Policy     string
	Result     domain.ExecutionResult
	ModelCalls int
	Executions int
	Corrected  []domain.FileChange
	Improved   []domain.FileChange
}

// Succeeded reports whether the last execution exited zero.
func (r Report) Succeeded() bool {
	return r.Result.Success
}

// Service orchestrates execution and the model feedback loop.
type Service struct {
	Executor ports.CommandExecutor
	Sessions ports.SessionOpener
	Codec    ports.TranscriptCodec
	Files    ports.FileWriter
	Renderer ports.Renderer
	History  ports.HistoryRepository
	Logger   ports.Logger
	// Model is recorded in history only.
	Model string
	Now   func() time.Time
}

// Run executes req according to its policy flags. With both flags set,
// autofix runs first and autoimprove works on the fixed result.
func (s *Service) Run(ctx context.Context, req Request) (Report, error) {
	if s.Executor == nil || s.Codec == nil || s.Logger == nil {
		return Report{}, errors.New("feedback.Service dependencies not satisfied")
	}

	start := s.now()
	report := Report{Policy: policyName(req)}
	var err error

	switch {
	case req.Autofix:
		err = s.autofix(ctx, req, &report)
		if err == nil && req.Autoimprove {
			err = s.autoimprove(ctx, req, &report)
		}
	case req.Autoimprove:
		err = s.autoimprove(ctx, req, &report)
		if err == nil && !report.Result.Success {
			err = &domain.CommandFailedError{
				Command:  report.Result.Command,
				Output:   report.Result.Output,
				ExitCode: report.Result.ExitCode,
			}
		}
	default:
		report.Result, err = s.Executor.Execute(ctx, domain.ExecuteRequest{
			Command: req.Command,
			Input:   req.Input,
			Verbose: req.Verbose,
		})
		report.Executions = 1
	}

	s.record(req, report, start, err)
	return report, err
}

// Autofix runs command against input and, while it fails, asks the "autofix"
// session for corrected files and retries. maxAttempts bounds the number of
// model calls; executions are at most maxAttempts+1.
func (s *Service) Autofix(ctx context.Context, req Request) (Report, error) {
	report := Report{Policy: domain.PolicyAutofix}
	err := s.autofix(ctx, req, &report)
	return report, err
}

// Autoimprove runs command once and applies any improved files the
// "autoimprove" session proposes. No reply sections means nothing to improve.
func (s *Service) Autoimprove(ctx context.Context, req Request) (Report, error) {
	report := Report{Policy: domain.PolicyAutoimprove}
	err := s.autoimprove(ctx, req, &report)
	return report, err
}

func (s *Service) autofix(ctx context.Context, req Request, report *Report) error {
	var session ports.ChatSession
	for {
		transcript, result, err := s.execute(ctx, req)
		report.Result = result
		report.Executions++
		if err == nil {
			s.Logger.Info("command succeeded", map[string]interface{}{
				"command":     req.Command,
				"model_calls": report.ModelCalls,
			})
			return nil
		}

		var failed *domain.CommandFailedError
		if !errors.As(err, &failed) {
			return err
		}
		s.render(transcript.Markdown())

		if report.ModelCalls >= req.MaxAttempts {
			return &domain.AutofixExhaustedError{MaxAttempts: max(req.MaxAttempts, 0)}
		}

		if session == nil {
			session, err = s.open(ctx, domain.SessionAutofix)
			if err != nil {
				return err
			}
		}

		s.Logger.Info("requesting fix", map[string]interface{}{
			"command":   failed.Command,
			"attempt":   report.ModelCalls + 1,
			"of":        req.MaxAttempts,
			"exit_code": failed.ExitCode,
		})
		reply, err := session.Chat(ctx, transcript.Markdown())
		report.ModelCalls++
		if err != nil {
			return err
		}
		s.render(reply)

		changes := s.Codec.ExtractSections(reply, domain.LabelCorrectedFile)
		if len(changes) == 0 {
			return &domain.MalformedReplyError{Label: domain.LabelCorrectedFile}
		}
		if err := s.apply(changes); err != nil {
			return err
		}
		report.Corrected = append(report.Corrected, changes...)
	}
}

func (s *Service) autoimprove(ctx context.Context, req Request, report *Report) error {
	transcript, result, err := s.execute(ctx, req)
	report.Result = result
	report.Executions++
	if err != nil {
		var failed *domain.CommandFailedError
		if !errors.As(err, &failed) {
			return err
		}
	}
	s.render(transcript.Markdown())

	session, err := s.open(ctx, domain.SessionAutoimprove)
	if err != nil {
		return err
	}
	reply, err := session.Chat(ctx, transcript.Markdown())
	report.ModelCalls++
	if err != nil {
		return err
	}
	s.render(reply)

	changes := s.Codec.ExtractSections(reply, domain.LabelImprovedFile)
	if len(changes) == 0 {
		s.Logger.Info("nothing to improve", map[string]interface{}{"input": req.Input})
		return nil
	}
	if err := s.apply(changes); err != nil {
		return err
	}
	report.Improved = append(report.Improved, changes...)
	return nil
}

// execute runs one attempt with a fresh transcript.
func (s *Service) execute(ctx context.Context, req Request) (domain.Transcript, domain.ExecutionResult, error) {
	transcript := s.Codec.NewTranscript()
	result, err := s.Executor.Execute(ctx, domain.ExecuteRequest{
		Command:    req.Command,
		Input:      req.Input,
		Verbose:    req.Verbose,
		Transcript: transcript,
	})
	return transcript, result, err
}

func (s *Service) open(ctx context.Context, name string) (ports.ChatSession, error) {
	if s.Sessions == nil {
		return nil, &domain.ConfigurationError{Message: "no model session available"}
	}
	return s.Sessions.Open(ctx, name)
}

// apply writes every change; each file is replaced in full or left untouched.
func (s *Service) apply(changes []domain.FileChange) error {
	if s.Files == nil {
		return errors.New("feedback.Service has no file writer")
	}
	for _, change := range changes {
		if err := s.Files.WriteFile(change.Path, change.Content+"\n"); err != nil {
			return fmt.Errorf("write %s: %w", change.Path, err)
		}
		s.Logger.Info("file updated", map[string]interface{}{
			"path":  change.Path,
			"bytes": len(change.Content) + 1,
		})
	}
	return nil
}

func (s *Service) render(md string) {
	if s.Renderer != nil && strings.TrimSpace(md) != "" {
		s.Renderer.Markdown(md)
	}
}

func (s *Service) record(req Request, report Report, start time.Time, runErr error) {
	if s.History == nil {
		return
	}
	rec := domain.RunRecord{
		ID:           uuid.NewString(),
		Timestamp:    start,
		Command:      req.Command,
		Input:        req.Input,
		Policy:       report.Policy,
		Success:      runErr == nil,
		Attempts:     report.ModelCalls,
		FilesWritten: len(report.Corrected) + len(report.Improved),
		DurationMS:   s.now().Sub(start).Milliseconds(),
	}
	if report.ModelCalls > 0 {
		rec.Model = s.Model
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	if err := s.History.Save(rec); err != nil {
		s.Logger.Warn("failed to record history", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func policyName(req Request) string {
	switch {
	case req.Autofix && req.Autoimprove:
		return domain.PolicyAutofix + "+" + domain.PolicyAutoimprove
	case req.Autofix:
		return domain.PolicyAutofix
	case req.Autoimprove:
		return domain.PolicyAutoimprove
	default:
		return domain.PolicyRun
	}
}
