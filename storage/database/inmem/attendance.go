package inmemdb

import (
	"context"
	"fmt"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) hydrate(a attendance.Attendance) attendance.Attendance {
	a.Student = repo.db.studentRef(a.StudentID)
	return a
}

func (repo *attendanceRepository) query(keep func(attendance.Attendance) bool) []attendance.Attendance {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]attendance.Attendance, 0)
	for _, id := range sortedIDs(repo.db.attendance) {
		if a := repo.db.attendance[id]; keep(a) {
			records = append(records, repo.hydrate(a))
		}
	}
	return records
}

func (repo *attendanceRepository) QueryAttendance(_ context.Context) ([]attendance.Attendance, error) {
	return repo.query(func(attendance.Attendance) bool { return true }), nil
}

func (repo *attendanceRepository) QueryAttendanceByStudent(_ context.Context, studentID int) ([]attendance.Attendance, error) {
	return repo.query(func(a attendance.Attendance) bool { return a.StudentID == studentID }), nil
}

func (repo *attendanceRepository) QueryAttendanceByDay(_ context.Context, day string) ([]attendance.Attendance, error) {
	return repo.query(func(a attendance.Attendance) bool { return a.Day == day }), nil
}

func (repo *attendanceRepository) GetAttendance(_ context.Context, id int) (attendance.Attendance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.attendance[id]; ok {
		return repo.hydrate(a), nil
	}
	return attendance.Attendance{}, core.NewNotFoundError("attendance", id)
}

// checkUnique enforces the (student, day) unique constraint.
func (repo *attendanceRepository) checkUnique(a attendance.Attendance) error {
	if _, ok := repo.db.students[a.StudentID]; !ok {
		return core.NewNotFoundError("student", a.StudentID)
	}
	for id, other := range repo.db.attendance {
		if id != a.ID && other.StudentID == a.StudentID && other.Day == a.Day {
			return core.NewConflictError(fmt.Sprintf("duplicate attendance for student %d on %s", a.StudentID, a.Day))
		}
	}
	return nil
}

func (repo *attendanceRepository) CreateAttendance(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a.ID = 0
	if err := repo.checkUnique(a); err != nil {
		return attendance.Attendance{}, err
	}
	a.ID = repo.db.nextID("asistencia")
	a.Date = a.Date.UTC()
	a.Student = nil
	repo.db.attendance[a.ID] = a
	return a, nil
}

func (repo *attendanceRepository) UpdateAttendance(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.attendance[a.ID]; !ok {
		return attendance.Attendance{}, core.NewNotFoundError("attendance", a.ID)
	}
	if err := repo.checkUnique(a); err != nil {
		return attendance.Attendance{}, err
	}
	a.Date = a.Date.UTC()
	a.Student = nil
	repo.db.attendance[a.ID] = a
	return a, nil
}

func (repo *attendanceRepository) DeleteAttendance(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.attendance[id]; !ok {
		return core.NewNotFoundError("attendance", id)
	}
	delete(repo.db.attendance, id)
	return nil
}
