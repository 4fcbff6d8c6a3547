package diagnose

import (
	"context"

	"go.uber.org/zap"

	"impuls/internal/stats"
)

// Completer is a text-completion service.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Result struct {
	Summary   Summary `json:"summary"`
	Diagnosis string  `json:"diagnosis"`
}

type Diagnoser struct {
	completer Completer
	provider  string
	logger    *zap.Logger
}

func New(c Completer, provider string, logger *zap.Logger) *Diagnoser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Diagnoser{completer: c, provider: provider, logger: logger}
}

// Diagnose sends the summary of s to the completer. The model's answer is
// returned verbatim. Any completer failure is reported as a *ServiceError.
func (d *Diagnoser) Diagnose(ctx context.Context, s stats.Stats) (Result, error) {
	summary := NewSummary(s)
	text, err := d.completer.Complete(ctx, SystemPrompt, BuildPrompt(summary))
	if err != nil {
		d.logger.Warn("diagnosis failed", zap.String("provider", d.provider), zap.Error(err))
		if !IsServiceError(err) {
			err = &ServiceError{Provider: d.provider, Err: err}
		}
		return Result{Summary: summary}, err
	}
	d.logger.Debug("diagnosis received", zap.String("provider", d.provider), zap.Int("chars", len(text)))
	return Result{Summary: summary, Diagnosis: text}, nil
}
