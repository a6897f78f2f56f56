package process

import (
	"context"
	"fmt"
	"strings"

	"ewintr.nl/ytideas/model"
)

type VideoLookup interface {
	SearchVideosWithDetails(ctx context.Context, query model.SearchQuery) ([]model.VideoDetails, error)
}

// Researcher lets the model pick a search query per idea and attaches the
// top YouTube results for that query.
type Researcher struct {
	llm        Completer
	defs       *Definitions
	lookup     VideoLookup
	maxResults int64
}

func NewResearcher(llm Completer, defs *Definitions, lookup VideoLookup, maxResults int64) *Researcher {
	return &Researcher{
		llm:        llm,
		defs:       defs,
		lookup:     lookup,
		maxResults: maxResults,
	}
}

func (r *Researcher) Name() string {
	return "researcher"
}

func (r *Researcher) Do(ctx context.Context, run *model.Run) error {
	if len(run.Ideas) > 0 {
		keywords, err := r.keywords(ctx, run.Ideas)
		if err != nil {
			return err
		}

		for i := range run.Ideas {
			query := model.SearchQuery{Keyword: keywords[i], MaxResults: r.maxResults}
			research, err := r.lookup.SearchVideosWithDetails(ctx, query)
			if err != nil {
				return fmt.Errorf("research for %q failed: %w", query.Keyword, err)
			}
			run.Ideas[i].SearchKeyword = keywords[i]
			run.Ideas[i].Research = research
		}
	}

	run.Status = model.RunStatusResearched
	return nil
}

func (r *Researcher) keywords(ctx context.Context, ideas []model.VideoIdea) ([]string, error) {
	type ideaInput struct {
		VideoTitle  string `json:"video_title"`
		Description string `json:"description"`
	}
	input := struct {
		VideoIdeas []ideaInput `json:"video_ideas"`
	}{}
	for _, idea := range ideas {
		input.VideoIdeas = append(input.VideoIdeas, ideaInput{VideoTitle: idea.VideoTitle, Description: idea.Description})
	}

	var output struct {
		Keywords []string `json:"keywords"`
	}
	if err := ask(ctx, r.llm, r.defs, TaskResearchIdeas, nil, input, &output); err != nil {
		return nil, err
	}
	if len(output.Keywords) != len(ideas) {
		return nil, fmt.Errorf("expected %d search keywords, got %d", len(ideas), len(output.Keywords))
	}

	keywords := make([]string, len(ideas))
	for i, kw := range output.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			kw = ideas[i].VideoTitle
		}
		keywords[i] = kw
	}

	return keywords, nil
}
