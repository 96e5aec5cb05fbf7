package inmemdb

import (
	"context"
	"sort"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/observation"
)

type observationRepository struct {
	db *DB
}

var _ observation.Repository = (*observationRepository)(nil) // interface compliance check

func NewObservationRepository(db *DB) *observationRepository {
	return &observationRepository{db: db}
}

func (repo *observationRepository) hydrate(o observation.Observation) observation.Observation {
	o.Student = repo.db.studentRef(o.StudentID)
	o.Teacher = repo.db.teacherRef(o.TeacherID)
	return o
}

// query returns the matching observations newest first.
func (repo *observationRepository) query(keep func(observation.Observation) bool) []observation.Observation {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ids := sortedIDs(repo.db.observations)
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	observations := make([]observation.Observation, 0)
	for _, id := range ids {
		if o := repo.db.observations[id]; keep(o) {
			observations = append(observations, repo.hydrate(o))
		}
	}
	return observations
}

func (repo *observationRepository) QueryObservations(_ context.Context) ([]observation.Observation, error) {
	return repo.query(func(observation.Observation) bool { return true }), nil
}

func (repo *observationRepository) QueryObservationsByStudent(_ context.Context, studentID int) ([]observation.Observation, error) {
	return repo.query(func(o observation.Observation) bool { return o.StudentID == studentID }), nil
}

func (repo *observationRepository) QueryObservationsByTeacher(_ context.Context, teacherID int) ([]observation.Observation, error) {
	return repo.query(func(o observation.Observation) bool { return o.TeacherID == teacherID }), nil
}

func (repo *observationRepository) GetObservation(_ context.Context, id int) (observation.Observation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if o, ok := repo.db.observations[id]; ok {
		return repo.hydrate(o), nil
	}
	return observation.Observation{}, core.NewNotFoundError("observation", id)
}

func (repo *observationRepository) checkRefs(o observation.Observation) error {
	if _, ok := repo.db.students[o.StudentID]; !ok {
		return core.NewNotFoundError("student", o.StudentID)
	}
	if _, ok := repo.db.teachers[o.TeacherID]; !ok {
		return core.NewNotFoundError("teacher", o.TeacherID)
	}
	return nil
}

func (repo *observationRepository) CreateObservation(_ context.Context, o observation.Observation) (observation.Observation, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.checkRefs(o); err != nil {
		return observation.Observation{}, err
	}
	o.ID = repo.db.nextID("observacion")
	o.Date = o.Date.UTC()
	o.Student, o.Teacher = nil, nil
	repo.db.observations[o.ID] = o
	return o, nil
}

func (repo *observationRepository) UpdateObservation(_ context.Context, o observation.Observation) (observation.Observation, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.observations[o.ID]; !ok {
		return observation.Observation{}, core.NewNotFoundError("observation", o.ID)
	}
	if err := repo.checkRefs(o); err != nil {
		return observation.Observation{}, err
	}
	o.Student, o.Teacher = nil, nil
	repo.db.observations[o.ID] = o
	return o, nil
}

func (repo *observationRepository) DeleteObservation(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.observations[id]; !ok {
		return core.NewNotFoundError("observation", id)
	}
	delete(repo.db.observations, id)
	return nil
}
