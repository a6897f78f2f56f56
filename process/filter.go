package process

import (
	"context"

	"ewintr.nl/ytideas/model"
)

type CommentFilter struct {
	llm  Completer
	defs *Definitions
}

func NewCommentFilter(llm Completer, defs *Definitions) *CommentFilter {
	return &CommentFilter{
		llm:  llm,
		defs: defs,
	}
}

func (cf *CommentFilter) Name() string {
	return "comment filter"
}

// Do keeps the comments the model selected. Ids the model made up are ignored.
func (cf *CommentFilter) Do(ctx context.Context, run *model.Run) error {
	if len(run.Comments) > 0 {
		input := struct {
			Comments []model.Comment `json:"comments"`
		}{Comments: run.Comments}
		var output struct {
			CommentIDs []string `json:"comment_ids"`
		}
		if err := ask(ctx, cf.llm, cf.defs, TaskFilterComments, nil, input, &output); err != nil {
			return err
		}

		keep := make(map[string]bool, len(output.CommentIDs))
		for _, id := range output.CommentIDs {
			keep[id] = true
		}
		kept := make([]model.Comment, 0, len(output.CommentIDs))
		for _, c := range run.Comments {
			if keep[c.CommentID] {
				kept = append(kept, c)
			}
		}
		run.Comments = kept
	}

	run.Status = model.RunStatusFiltered
	return nil
}
