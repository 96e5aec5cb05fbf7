package inmemdb

import (
	"context"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/subject"
)

type subjectRepository struct {
	db *DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) *subjectRepository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) QuerySubjects(_ context.Context) ([]subject.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subjects := make([]subject.Subject, 0, len(repo.db.subjects))
	for _, id := range sortedIDs(repo.db.subjects) {
		subjects = append(subjects, repo.db.subjects[id])
	}
	return subjects, nil
}

func (repo *subjectRepository) GetSubject(_ context.Context, id int) (subject.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.subjects[id]; ok {
		return s, nil
	}
	return subject.Subject{}, core.NewNotFoundError("subject", id)
}

func (repo *subjectRepository) CreateSubject(_ context.Context, s subject.Subject) (subject.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s.ID = repo.db.nextID("asignatura")
	repo.db.subjects[s.ID] = s
	return s, nil
}

func (repo *subjectRepository) UpdateSubject(_ context.Context, s subject.Subject) (subject.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.subjects[s.ID]; !ok {
		return subject.Subject{}, core.NewNotFoundError("subject", s.ID)
	}
	repo.db.subjects[s.ID] = s
	return s, nil
}

func (repo *subjectRepository) DeleteSubject(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.subjects[id]; !ok {
		return core.NewNotFoundError("subject", id)
	}
	repo.db.deleteSubject(id)
	return nil
}
