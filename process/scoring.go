package process

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ewintr.nl/ytideas/model"
	"github.com/invopop/jsonschema"
)

const (
	minScore = 1
	maxScore = 10
)

type Scorer struct {
	llm    Completer
	defs   *Definitions
	schema string
}

func NewScorer(llm Completer, defs *Definitions) *Scorer {
	return &Scorer{
		llm:    llm,
		defs:   defs,
		schema: ideasSchema(),
	}
}

func (s *Scorer) Name() string {
	return "scorer"
}

// Do copies the scores the model gave onto the ideas and sorts the ideas from
// best to worst.
func (s *Scorer) Do(ctx context.Context, run *model.Run) error {
	if len(run.Ideas) > 0 {
		input := model.VideoIdeasList{VideoIdeas: run.Ideas}
		var output model.VideoIdeasList
		if err := ask(ctx, s.llm, s.defs, TaskScoreIdeas, map[string]string{"schema": s.schema}, input, &output); err != nil {
			return err
		}
		if len(output.VideoIdeas) != len(run.Ideas) {
			return fmt.Errorf("expected %d scored ideas, got %d", len(run.Ideas), len(output.VideoIdeas))
		}

		if err := applyScores(run.Ideas, output.VideoIdeas); err != nil {
			return err
		}
		list := model.VideoIdeasList{VideoIdeas: run.Ideas}
		list.SortByScore()
		run.Ideas = list.VideoIdeas
	}

	run.Status = model.RunStatusReady
	return nil
}

type ideaKey struct {
	commentID string
	title     string
}

// applyScores matches every scored idea to an idea by comment and title, so
// the answer may come back in any order. Each idea must be scored once.
func applyScores(ideas, scored []model.VideoIdea) error {
	open := make(map[ideaKey][]int, len(ideas))
	for i, idea := range ideas {
		key := ideaKey{commentID: idea.CommentID, title: idea.VideoTitle}
		open[key] = append(open[key], i)
	}

	for _, s := range scored {
		key := ideaKey{commentID: s.CommentID, title: strings.TrimSpace(s.VideoTitle)}
		idx := open[key]
		if len(idx) == 0 {
			return fmt.Errorf("scored idea %q for comment %q does not match an unscored idea", s.VideoTitle, s.CommentID)
		}
		ideas[idx[0]].Score = clampScore(s.Score)
		open[key] = idx[1:]
	}

	return nil
}

func clampScore(score int) int {
	switch {
	case score < minScore:
		return minScore
	case score > maxScore:
		return maxScore
	default:
		return score
	}
}

func ideasSchema() string {
	r := &jsonschema.Reflector{DoNotReference: true}
	schema, err := json.Marshal(r.Reflect(&model.VideoIdeasList{}))
	if err != nil {
		// the schema is derived from a static type
		panic(err)
	}
	return string(schema)
}
