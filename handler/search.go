package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ewintr.nl/ytideas/fetch"
	"ewintr.nl/ytideas/model"
	"ewintr.nl/ytideas/process"
	"golang.org/x/exp/slog"
)

type SearchAPI struct {
	lookup process.VideoLookup
	logger *slog.Logger
}

func NewSearchAPI(lookup process.VideoLookup, logger *slog.Logger) *SearchAPI {
	return &SearchAPI{
		lookup: lookup,
		logger: logger,
	}
}

func (sa *SearchAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sub, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodGet && sub == "":
		sa.Search(w, r)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the search api", r.Method, sub))
	}
}

func (sa *SearchAPI) Search(w http.ResponseWriter, r *http.Request) {
	query := model.SearchQuery{Keyword: r.URL.Query().Get("q")}
	if rawMax := r.URL.Query().Get("max"); rawMax != "" {
		max, err := strconv.ParseInt(rawMax, 10, 64)
		if err != nil {
			sa.returnErr(w, http.StatusBadRequest, "invalid max", err, rawMax)
			return
		}
		query.MaxResults = max
	}

	videos, err := sa.lookup.SearchVideosWithDetails(r.Context(), query)
	if err != nil {
		sa.returnErr(w, searchStatus(err), "search failed", err, query.Keyword)
		return
	}
	if videos == nil {
		videos = []model.VideoDetails{}
	}

	JSON(w, http.StatusOK, videos)
}

func searchStatus(err error) int {
	var notFoundErr *fetch.NotFoundError
	var upstreamErr *fetch.UpstreamRequestError
	var transportErr *fetch.TransportError
	var malformedErr *fetch.MalformedResponseError
	switch {
	case errors.Is(err, model.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &upstreamErr), errors.As(err, &transportErr), errors.As(err, &malformedErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (sa *SearchAPI) returnErr(w http.ResponseWriter, status int, message string, err error, details ...any) {
	sa.logger.Error(message, slog.String("err", err.Error()), slog.String("details", fmt.Sprintf("%+v", details)))
	Error(w, status, message, err, details...)
}
