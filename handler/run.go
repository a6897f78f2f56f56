package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"ewintr.nl/ytideas/model"
	"ewintr.nl/ytideas/storage"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type RunAPI struct {
	runRepo storage.RunRelRepository
	logger  *slog.Logger
}

func NewRunAPI(runRepo storage.RunRelRepository, logger *slog.Logger) *RunAPI {
	return &RunAPI{
		runRepo: runRepo,
		logger:  logger,
	}
}

func (ra *RunAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	runID, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodGet && runID == "":
		ra.List(w, r)
	case r.Method == http.MethodGet:
		ra.Get(w, runID)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the run api", r.Method, runID))
	}
}

type respRun struct {
	ID        string            `json:"id"`
	Status    model.RunStatus   `json:"status"`
	Source    string            `json:"source"`
	Ideas     []model.VideoIdea `json:"video_ideas"`
	Error     string            `json:"error,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func newRespRun(run *model.Run) respRun {
	ideas := run.Ideas
	if ideas == nil {
		ideas = []model.VideoIdea{}
	}
	return respRun{
		ID:        run.ID.String(),
		Status:    run.Status,
		Source:    run.Source,
		Ideas:     ideas,
		Error:     run.Error,
		UpdatedAt: run.UpdatedAt,
	}
}

func (ra *RunAPI) List(w http.ResponseWriter, _ *http.Request) {
	runs, err := ra.runRepo.FindByStatus(model.RunStatusReady)
	if err != nil {
		ra.returnErr(w, http.StatusInternalServerError, "could not list runs", err)
		return
	}

	resp := make([]respRun, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, newRespRun(run))
	}

	JSON(w, http.StatusOK, resp)
}

func (ra *RunAPI) Get(w http.ResponseWriter, rawID string) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		ra.returnErr(w, http.StatusBadRequest, "invalid run id", err, rawID)
		return
	}

	run, err := ra.runRepo.FindByID(id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		ra.returnErr(w, http.StatusNotFound, "run not found", err, rawID)
		return
	case err != nil:
		ra.returnErr(w, http.StatusInternalServerError, "could not get run", err, rawID)
		return
	}

	JSON(w, http.StatusOK, newRespRun(run))
}

func (ra *RunAPI) returnErr(w http.ResponseWriter, status int, message string, err error, details ...any) {
	ra.logger.Error(message, slog.String("err", err.Error()), slog.String("details", fmt.Sprintf("%+v", details)))
	Error(w, status, message, err, details...)
}
