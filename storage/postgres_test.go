package storage

import (
	"encoding/json"
	"testing"
	"time"

	"ewintr.nl/ytideas/model"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareMigrations(t *testing.T) {
	for _, tc := range []struct {
		name     string
		wanted   []string
		existing []string
		exp      []string
		expErr   bool
	}{
		{
			name:   "fresh database",
			wanted: []string{"a", "b"},
			exp:    []string{"a", "b"},
		},
		{
			name:     "partially applied",
			wanted:   []string{"a", "b", "c"},
			existing: []string{"a"},
			exp:      []string{"b", "c"},
		},
		{
			name:     "up to date",
			wanted:   []string{"a", "b"},
			existing: []string{"a", "b"},
			exp:      []string{},
		},
		{
			name:     "more existing than wanted",
			wanted:   []string{"a"},
			existing: []string{"a", "b"},
			expErr:   true,
		},
		{
			name:     "changed migration",
			wanted:   []string{"a", "x"},
			existing: []string{"a", "b"},
			expErr:   true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			act, err := compareMigrations(tc.wanted, tc.existing)
			if tc.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.exp, act)
		})
	}
}

type fakeRow struct {
	values []any
}

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch d := d.(type) {
		case *uuid.UUID:
			*d = r.values[i].(uuid.UUID)
		case *string:
			*d = r.values[i].(string)
		case *[]byte:
			*d = r.values[i].([]byte)
		case *time.Time:
			*d = r.values[i].(time.Time)
		}
	}
	return nil
}

func TestScanRunRoundTrip(t *testing.T) {
	run := model.NewRun("video:abc", []model.Comment{
		{CommentID: "c1", VideoID: "abc", Text: "do one about cats"},
	})
	run.Status = model.RunStatusReady
	run.Ideas = []model.VideoIdea{{
		Score:      8,
		VideoTitle: "Cats explained",
		VideoID:    "abc",
		CommentID:  "c1",
		Research: []model.ResearchItem{
			{Title: "Cats!", ViewCount: 500, URL: "https://youtube.com/watch?v=x"},
		},
	}}

	comments, ideas, err := marshalRun(run)
	require.NoError(t, err)

	act, err := scanRun(fakeRow{values: []any{
		run.ID, string(run.Status), run.Source, comments, ideas, run.Error, run.CreatedAt, run.UpdatedAt,
	}})
	require.NoError(t, err)
	if diff := cmp.Diff(run, act); diff != "" {
		t.Errorf("(-exp, +act):\n%s", diff)
	}
}

func TestMarshalRunEmpty(t *testing.T) {
	comments, ideas, err := marshalRun(&model.Run{})
	require.NoError(t, err)
	assert.True(t, json.Valid(comments))
	assert.Equal(t, "[]", string(comments))
	assert.Equal(t, "[]", string(ideas))
}
