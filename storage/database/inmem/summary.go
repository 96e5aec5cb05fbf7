package inmemdb

import (
	"context"

	"github.com/liceo-app/liceo/core/summary"
)

type summaryRepository struct {
	db *DB
}

var _ summary.Repository = (*summaryRepository)(nil) // interface compliance check

func NewSummaryRepository(db *DB) *summaryRepository {
	return &summaryRepository{db: db}
}

func (repo *summaryRepository) Snapshot(_ context.Context) (summary.Snapshot, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	snap := summary.Snapshot{
		Students:     len(repo.db.students),
		Teachers:     len(repo.db.teachers),
		Courses:      len(repo.db.courses),
		Subjects:     len(repo.db.subjects),
		Observations: len(repo.db.observations),
		Grades:       make([]summary.GradeValue, 0, len(repo.db.grades)),
		Attendance:   make([]string, 0, len(repo.db.attendance)),
	}
	for _, id := range sortedIDs(repo.db.grades) {
		g := repo.db.grades[id]
		snap.Grades = append(snap.Grades, summary.GradeValue{
			Value:       g.Value,
			SubjectID:   g.SubjectID,
			SubjectName: repo.db.subjects[g.SubjectID].Name,
		})
	}
	for _, id := range sortedIDs(repo.db.attendance) {
		snap.Attendance = append(snap.Attendance, repo.db.attendance[id].Status)
	}
	return snap, nil
}
