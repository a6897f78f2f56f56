package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusNew        RunStatus = "new"
	RunStatusFiltered   RunStatus = "filtered"
	RunStatusGenerated  RunStatus = "generated"
	RunStatusResearched RunStatus = "researched"
	RunStatusReady      RunStatus = "ready"
	RunStatusFailed     RunStatus = "failed"
)

type ResearchItem = VideoDetails

type VideoIdea struct {
	Score         int            `json:"score" jsonschema:"minimum=1,maximum=10"`
	VideoTitle    string         `json:"video_title"`
	Description   string         `json:"description"`
	VideoID       YoutubeVideoID `json:"video_id"`
	CommentID     string         `json:"comment_id"`
	SearchKeyword string         `json:"search_keyword,omitempty"`
	Research      []ResearchItem `json:"research"`
}

type VideoIdeasList struct {
	VideoIdeas []VideoIdea `json:"video_ideas"`
}

// SortByScore orders ideas from highest to lowest score, keeping the
// original order for equal scores.
func (l *VideoIdeasList) SortByScore() {
	sort.SliceStable(l.VideoIdeas, func(i, j int) bool {
		return l.VideoIdeas[i].Score > l.VideoIdeas[j].Score
	})
}

// Run is one pass of the idea pipeline over a batch of comments.
type Run struct {
	ID        uuid.UUID
	Status    RunStatus
	Source    string
	Comments  []Comment
	Ideas     []VideoIdea
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewRun(source string, comments []Comment) *Run {
	now := time.Now().UTC()
	return &Run{
		ID:        uuid.New(),
		Status:    RunStatusNew,
		Source:    source,
		Comments:  comments,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
