package model_test

import (
	"testing"

	"ewintr.nl/ytideas/model"
	"github.com/stretchr/testify/assert"
)

func TestSearchQuery(t *testing.T) {
	for _, tc := range []struct {
		name    string
		query   model.SearchQuery
		exp     model.SearchQuery
		wantErr bool
	}{
		{
			name:  "defaults",
			query: model.SearchQuery{Keyword: "  cat videos "},
			exp:   model.SearchQuery{Keyword: "cat videos", MaxResults: 3},
		},
		{
			name:  "explicit max",
			query: model.SearchQuery{Keyword: "cats", MaxResults: 7},
			exp:   model.SearchQuery{Keyword: "cats", MaxResults: 7},
		},
		{
			name:    "empty keyword",
			query:   model.SearchQuery{Keyword: " "},
			exp:     model.SearchQuery{MaxResults: 3},
			wantErr: true,
		},
		{
			name:    "negative max",
			query:   model.SearchQuery{Keyword: "cats", MaxResults: -1},
			exp:     model.SearchQuery{Keyword: "cats", MaxResults: -1},
			wantErr: true,
		},
		{
			name:    "above api cap",
			query:   model.SearchQuery{Keyword: "cats", MaxResults: 51},
			exp:     model.SearchQuery{Keyword: "cats", MaxResults: 51},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			act := tc.query.Normalize()
			assert.Equal(t, tc.exp, act)
			err := act.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidQuery)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWatchURL(t *testing.T) {
	assert.Equal(t, "https://youtube.com/watch?v=abc", model.YoutubeVideoID("abc").WatchURL())
}

func TestSortByScore(t *testing.T) {
	list := model.VideoIdeasList{VideoIdeas: []model.VideoIdea{
		{VideoTitle: "low", Score: 2},
		{VideoTitle: "high", Score: 9},
		{VideoTitle: "mid a", Score: 5},
		{VideoTitle: "mid b", Score: 5},
	}}
	list.SortByScore()

	var titles []string
	for _, idea := range list.VideoIdeas {
		titles = append(titles, idea.VideoTitle)
	}
	assert.Equal(t, []string{"high", "mid a", "mid b", "low"}, titles)
}
