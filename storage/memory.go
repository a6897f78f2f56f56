package storage

import (
	"sort"
	"sync"

	"ewintr.nl/ytideas/model"
	"github.com/google/uuid"
)

// MemoryRunRepository keeps runs for the lifetime of the process. It is used
// for one-off runs from the command line.
type MemoryRunRepository struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]model.Run
}

func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{runs: map[uuid.UUID]model.Run{}}
}

func (m *MemoryRunRepository) Save(run *model.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = *run
	return nil
}

func (m *MemoryRunRepository) FindByID(id uuid.UUID) (*model.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &run, nil
}

func (m *MemoryRunRepository) FindByStatus(statuses ...model.RunStatus) ([]*model.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := map[model.RunStatus]bool{}
	for _, s := range statuses {
		wanted[s] = true
	}

	runs := []*model.Run{}
	for _, run := range m.runs {
		if wanted[run.Status] {
			run := run
			runs = append(runs, &run)
		}
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})

	return runs, nil
}
