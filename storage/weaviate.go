package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ewintr.nl/ytideas/model"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/fault"
	"github.com/weaviate/weaviate/entities/models"
)

const (
	className = "VideoIdea"
)

type WeaviateInfo struct {
	// Scheme defaults to https.
	Scheme       string
	Host         string
	APIKey       string
	OpenAIAPIKey string
}

type Weaviate struct {
	client *weaviate.Client
}

func NewWeaviate(info WeaviateInfo) (*Weaviate, error) {
	scheme := info.Scheme
	if scheme == "" {
		scheme = "https"
	}
	config := weaviate.Config{
		Scheme:     scheme,
		Host:       info.Host,
		AuthConfig: auth.ApiKey{Value: info.APIKey},
		Headers: map[string]string{
			"X-OpenAI-Api-Key": info.OpenAIAPIKey,
		},
	}

	c, err := weaviate.NewClient(config)
	if err != nil {
		return nil, err
	}

	return &Weaviate{client: c}, nil
}

func (w *Weaviate) ResetSchema(ctx context.Context) error {
	// delete old
	if err := w.client.Schema().ClassDeleter().WithClassName(className).Do(ctx); err != nil {
		// a missing class is reported as 400
		var status *fault.WeaviateClientError
		if !errors.As(err, &status) || status.StatusCode != http.StatusBadRequest {
			return fmt.Errorf("could not delete class %s: %w", className, err)
		}
	}

	// create new
	classObj := &models.Class{
		Class:      className,
		Vectorizer: "text2vec-openai",
		ModuleConfig: map[string]any{
			"text2vec-openai": map[string]any{
				"model":        "ada",
				"modelVersion": "002",
				"type":         "text",
			},
		},
	}

	return w.client.Schema().ClassCreator().WithClass(classObj).Do(ctx)
}

func (w *Weaviate) Save(ctx context.Context, id uuid.UUID, idea model.VideoIdea) error {
	iID := id.String()
	props := ideaProperties(idea)

	exists, err := w.client.Data().
		Checker().
		WithID(iID).
		WithClassName(className).
		Do(ctx)
	if err != nil {
		return err
	}

	if exists {
		return w.client.Data().
			Updater().
			WithID(iID).
			WithClassName(className).
			WithProperties(props).
			Do(ctx)
	}

	_, err = w.client.Data().
		Creator().
		WithClassName(className).
		WithID(iID).
		WithProperties(props).
		Do(ctx)

	return err
}

func ideaProperties(idea model.VideoIdea) map[string]any {
	return map[string]any{
		"videoTitle":    idea.VideoTitle,
		"description":   idea.Description,
		"score":         idea.Score,
		"sourceVideoId": string(idea.VideoID),
		"commentId":     idea.CommentID,
		"searchKeyword": idea.SearchKeyword,
	}
}
