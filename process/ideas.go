package process

import (
	"context"
	"strings"

	"ewintr.nl/ytideas/model"
)

type IdeaGenerator struct {
	llm  Completer
	defs *Definitions
}

func NewIdeaGenerator(llm Completer, defs *Definitions) *IdeaGenerator {
	return &IdeaGenerator{
		llm:  llm,
		defs: defs,
	}
}

func (ig *IdeaGenerator) Name() string {
	return "idea generator"
}

func (ig *IdeaGenerator) Do(ctx context.Context, run *model.Run) error {
	run.Ideas = []model.VideoIdea{}
	if len(run.Comments) > 0 {
		input := struct {
			Comments []model.Comment `json:"comments"`
		}{Comments: run.Comments}
		var output model.VideoIdeasList
		if err := ask(ctx, ig.llm, ig.defs, TaskGenerateIdeas, nil, input, &output); err != nil {
			return err
		}

		comments := make(map[string]model.Comment, len(run.Comments))
		for _, c := range run.Comments {
			comments[c.CommentID] = c
		}
		for _, idea := range output.VideoIdeas {
			idea.VideoTitle = strings.TrimSpace(idea.VideoTitle)
			if idea.VideoTitle == "" {
				continue
			}
			// the comment is the source of truth for the video it was posted on
			if c, ok := comments[idea.CommentID]; ok {
				idea.VideoID = c.VideoID
			}
			idea.Score = 0
			idea.SearchKeyword = ""
			idea.Research = nil
			run.Ideas = append(run.Ideas, idea)
		}
	}

	run.Status = model.RunStatusGenerated
	return nil
}
