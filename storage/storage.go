package storage

import (
	"context"
	"errors"

	"ewintr.nl/ytideas/model"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type RunRelRepository interface {
	Save(run *model.Run) error
	FindByID(id uuid.UUID) (*model.Run, error)
	FindByStatus(statuses ...model.RunStatus) ([]*model.Run, error)
}

type IdeaVecRepository interface {
	Save(ctx context.Context, id uuid.UUID, idea model.VideoIdea) error
}
