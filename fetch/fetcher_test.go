package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"ewintr.nl/ytideas/model"
	"ewintr.nl/ytideas/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type memoryRuns struct {
	mu   sync.Mutex
	runs map[uuid.UUID]model.Run
}

func newMemoryRuns(runs ...*model.Run) *memoryRuns {
	m := &memoryRuns{runs: map[uuid.UUID]model.Run{}}
	for _, r := range runs {
		m.runs[r.ID] = *r
	}
	return m
}

func (m *memoryRuns) Save(run *model.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = *run
	return nil
}

func (m *memoryRuns) FindByID(id uuid.UUID) (*model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &run, nil
}

func (m *memoryRuns) FindByStatus(statuses ...model.RunStatus) ([]*model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []*model.Run
	for _, run := range m.runs {
		for _, s := range statuses {
			if run.Status == s {
				r := run
				res = append(res, &r)
			}
		}
	}
	return res, nil
}

type fakeFeed struct {
	entries []FeedEntry
	read    []int64
}

func (f *fakeFeed) Unread() ([]FeedEntry, error) {
	var unread []FeedEntry
	for _, e := range f.entries {
		if !slices.Contains(f.read, e.EntryID) {
			unread = append(unread, e)
		}
	}
	return unread, nil
}

func (f *fakeFeed) MarkRead(entryID int64) error {
	f.read = append(f.read, entryID)
	return nil
}

type fakeComments struct {
	mu       sync.Mutex
	comments map[model.YoutubeVideoID][]model.Comment
	errs     map[model.YoutubeVideoID]error
	calls    map[model.YoutubeVideoID]int
}

func newFakeComments(comments map[model.YoutubeVideoID][]model.Comment, errs map[model.YoutubeVideoID]error) *fakeComments {
	return &fakeComments{comments: comments, errs: errs, calls: map[model.YoutubeVideoID]int{}}
}

func (f *fakeComments) CommentThreads(_ context.Context, videoID model.YoutubeVideoID, _ int64) ([]model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[videoID]++
	if err, ok := f.errs[videoID]; ok {
		return nil, err
	}
	return f.comments[videoID], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetcherReadFeeds(t *testing.T) {
	feed := &fakeFeed{entries: []FeedEntry{
		{EntryID: 1, YoutubeID: "abc"},
		{EntryID: 2, YoutubeID: "quiet"},
		{EntryID: 3, YoutubeID: "disabled"},
		{EntryID: 4, YoutubeID: "deleted"},
		{EntryID: 5, YoutubeID: "offline"},
		{EntryID: 6, YoutubeID: "overloaded"},
		{EntryID: 7, YoutubeID: "quota"},
	}}
	comments := newFakeComments(
		map[model.YoutubeVideoID][]model.Comment{
			"abc":   {{CommentID: "c1", VideoID: "abc", Text: "more cats please"}},
			"quiet": {},
		},
		map[model.YoutubeVideoID]error{
			"disabled":   &UpstreamRequestError{Op: "commentThreads", StatusCode: http.StatusForbidden, Body: "commentsDisabled"},
			"deleted":    &UpstreamRequestError{Op: "commentThreads", StatusCode: http.StatusNotFound, Body: "videoNotFound"},
			"offline":    &TransportError{Op: "commentThreads", Err: errors.New("connection refused")},
			"overloaded": &UpstreamRequestError{Op: "commentThreads", StatusCode: http.StatusServiceUnavailable},
			"quota":      &UpstreamRequestError{Op: "commentThreads", StatusCode: http.StatusForbidden, Body: "quotaExceeded"},
		},
	)
	runs := newMemoryRuns()
	f := NewFetcher(runs, feed, comments, time.Minute, 20, discardLogger())

	require.NoError(t, f.ReadFeeds(context.Background()))

	select {
	case run := <-f.Out():
		assert.Equal(t, model.RunStatusNew, run.Status)
		assert.Equal(t, "video:abc", run.Source)
		assert.Len(t, run.Comments, 1)
		saved, err := runs.FindByID(run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.Comments, saved.Comments)
	default:
		t.Fatal("expected a run")
	}
	assert.Len(t, f.Out(), 0)
	// entries that failed for good are done, the others stay unread
	assert.Equal(t, []int64{1, 2, 3, 4}, feed.read)
}

func TestFetcherReadFeedsPermanentFailure(t *testing.T) {
	feed := &fakeFeed{entries: []FeedEntry{{EntryID: 1, YoutubeID: "disabled"}}}
	comments := newFakeComments(nil, map[model.YoutubeVideoID]error{
		"disabled": &UpstreamRequestError{Op: "commentThreads", StatusCode: http.StatusForbidden, Body: "commentsDisabled"},
	})
	f := NewFetcher(newMemoryRuns(), feed, comments, time.Minute, 20, discardLogger())

	for i := 0; i < 5; i++ {
		require.NoError(t, f.ReadFeeds(context.Background()))
	}

	assert.Equal(t, 1, comments.calls["disabled"])
	assert.Equal(t, []int64{1}, feed.read)
	assert.Len(t, f.Out(), 0)
}

func TestFetcherFindUnprocessed(t *testing.T) {
	pending := model.NewRun("video:a", nil)
	pending.Status = model.RunStatusGenerated
	done := model.NewRun("video:b", nil)
	done.Status = model.RunStatusReady
	failed := model.NewRun("video:c", nil)
	failed.Status = model.RunStatusFailed

	f := NewFetcher(newMemoryRuns(pending, done, failed), &fakeFeed{}, newFakeComments(nil, nil), time.Minute, 20, discardLogger())
	f.FindUnprocessed(context.Background())

	require.Len(t, f.Out(), 1)
	run := <-f.Out()
	assert.Equal(t, pending.ID, run.ID)
}

func TestFetcherRunStops(t *testing.T) {
	f := NewFetcher(newMemoryRuns(), &fakeFeed{}, newFakeComments(nil, nil), time.Hour, 20, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		f.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fetcher did not stop")
	}
	_, open := <-f.Out()
	assert.False(t, open)
}
