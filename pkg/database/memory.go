package database

import (
	"sync"
	"time"

	apperrors "todocal/pkg/errors"
)

// MemoryStore keeps tasks in process memory. Ids are never reused.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  map[int64]Task
	nextID int64
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:  make(map[int64]Task),
		nextID: 1,
		now:    time.Now,
	}
}

func (m *MemoryStore) CreateTask(draft Task) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := draft.Clone()
	task.ID = m.nextID
	task.Completed = false
	task.CreatedAt = m.now().UTC()
	m.nextID++

	m.tasks[task.ID] = task
	return task.Clone(), nil
}

func (m *MemoryStore) GetTask(id int64) (Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[id]
	if !ok {
		return Task{}, apperrors.NewNotFoundError("task", id)
	}
	return task.Clone(), nil
}

func (m *MemoryStore) UpdateTask(task Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.tasks[task.ID]
	if !ok {
		return apperrors.NewNotFoundError("task", task.ID)
	}

	updated := task.Clone()
	updated.CreatedAt = current.CreatedAt
	m.tasks[task.ID] = updated
	return nil
}

func (m *MemoryStore) DeleteTask(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tasks, id)
	return nil
}

// ListAllTasks returns a snapshot in map iteration order, i.e. unordered
func (m *MemoryStore) ListAllTasks() ([]Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		items = append(items, task.Clone())
	}
	return items, nil
}

func (m *MemoryStore) CountTasks() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks), nil
}

func (m *MemoryStore) Close() error {
	return nil
}
