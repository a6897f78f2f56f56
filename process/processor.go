package process

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ewintr.nl/ytideas/metrics"
	"ewintr.nl/ytideas/model"
	"ewintr.nl/ytideas/storage"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Step interface {
	Name() string
	Do(ctx context.Context, run *model.Run) error
}

type Steps struct {
	steps map[model.RunStatus]Step
}

func NewSteps(llm Completer, defs *Definitions, lookup VideoLookup, researchResults int64) *Steps {
	return &Steps{
		steps: map[model.RunStatus]Step{
			model.RunStatusNew:        NewCommentFilter(llm, defs),
			model.RunStatusFiltered:   NewIdeaGenerator(llm, defs),
			model.RunStatusGenerated:  NewResearcher(llm, defs, lookup, researchResults),
			model.RunStatusResearched: NewScorer(llm, defs),
		},
	}
}

// Next returns the step that moves the run to its next status, or nil when
// the run is finished.
func (s *Steps) Next(run *model.Run) Step {
	return s.steps[run.Status]
}

type Pipeline struct {
	in         chan *model.Run
	steps      *Steps
	logger     *slog.Logger
	relStorage storage.RunRelRepository
	vecStorage storage.IdeaVecRepository
}

// NewPipeline creates a pipeline. vecDB may be nil.
func NewPipeline(in chan *model.Run, steps *Steps, relDB storage.RunRelRepository, vecDB storage.IdeaVecRepository, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		in:         in,
		steps:      steps,
		relStorage: relDB,
		vecStorage: vecDB,
		logger:     logger,
	}
}

func (p *Pipeline) Run(ctx context.Context) {
	p.logger.Info("started pipeline")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stopped pipeline")
			return
		case run, ok := <-p.in:
			if !ok {
				p.logger.Info("pipeline input closed")
				return
			}
			if err := p.Process(ctx, run); err != nil {
				p.logger.Error("failed to process run", slog.String("run", run.ID.String()), slog.String("error", err.Error()))
			}
		}
	}
}

// Process runs the remaining steps for run. A failing step marks the run as
// failed and stops processing.
func (p *Pipeline) Process(ctx context.Context, run *model.Run) error {
	p.logger.Info("processing run", slog.String("run", run.ID.String()), slog.String("status", string(run.Status)))
	for {
		next := p.steps.Next(run)
		if next == nil {
			p.logger.Info("no more steps for run", slog.String("run", run.ID.String()), slog.String("status", string(run.Status)))
			return p.finish(ctx, run)
		}

		p.logger.Info("running step", slog.String("run", run.ID.String()), slog.String("step", next.Name()))
		start := time.Now()
		err := next.Do(ctx, run)
		metrics.ObserveStep(next.Name(), start)
		if err != nil {
			run.Status = model.RunStatusFailed
			run.Error = fmt.Sprintf("%s: %v", next.Name(), err)
			run.UpdatedAt = time.Now().UTC()
			metrics.RunsTotal.WithLabelValues(string(model.RunStatusFailed)).Inc()
			if saveErr := p.relStorage.Save(run); saveErr != nil {
				p.logger.Error("failed to save failed run", slog.String("run", run.ID.String()), slog.String("error", saveErr.Error()))
			}
			return fmt.Errorf("step %s failed for run %s: %w", next.Name(), run.ID, err)
		}

		run.UpdatedAt = time.Now().UTC()
		if err := p.relStorage.Save(run); err != nil {
			return fmt.Errorf("failed to save run %s: %w", run.ID, err)
		}
	}
}

func (p *Pipeline) finish(ctx context.Context, run *model.Run) error {
	if run.Status != model.RunStatusReady {
		return nil
	}
	metrics.RunsTotal.WithLabelValues(string(model.RunStatusReady)).Inc()

	if p.vecStorage == nil {
		return nil
	}
	for i, idea := range run.Ideas {
		if err := p.vecStorage.Save(ctx, IdeaID(run.ID, i), idea); err != nil {
			return fmt.Errorf("failed to save idea %d of run %s in vector store: %w", i, run.ID, err)
		}
	}
	p.logger.Info("stored ideas", slog.String("run", run.ID.String()), slog.Int("count", len(run.Ideas)))

	return nil
}

// IdeaID derives a stable id for the i-th idea of a run.
func IdeaID(runID uuid.UUID, i int) uuid.UUID {
	return uuid.NewSHA1(runID, []byte(fmt.Sprintf("idea-%d", i)))
}

func ask(ctx context.Context, llm Completer, defs *Definitions, task string, vars map[string]string, input, output any) error {
	system, user, err := defs.Prompt(task, vars, input)
	if err != nil {
		return err
	}

	content, err := llm.Complete(ctx, system, user)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(content), output); err != nil {
		return fmt.Errorf("could not parse answer for %s: %w", task, err)
	}

	return nil
}
