// Package summary computes the dashboard aggregate over a snapshot of the whole school.
package summary

import (
	"context"
	"sort"

	"github.com/liceo-app/liceo/core/attendance"
)

// TopSubjectsLimit caps the subject ranking.
const TopSubjectsLimit = 5

type (
	// GradeValue is a single grade with the subject it was given in.
	GradeValue struct {
		Value       float64
		SubjectID   int
		SubjectName string
	}

	// Snapshot holds the raw rows the dashboard is computed from.
	Snapshot struct {
		Students     int
		Teachers     int
		Courses      int
		Subjects     int
		Observations int
		Grades       []GradeValue
		Attendance   []string // statuses
	}

	SubjectAverage struct {
		ID      int     `json:"id"`
		Name    string  `json:"nombre"`
		Average float64 `json:"promedio"`
	}

	Summary struct {
		TotalStudents     int              `json:"totalEstudiantes"`
		TotalTeachers     int              `json:"totalProfesores"`
		TotalCourses      int              `json:"totalCursos"`
		TotalSubjects     int              `json:"totalAsignaturas"`
		TotalGrades       int              `json:"totalCalificaciones"`
		TotalAttendance   int              `json:"totalAsistencias"`
		TotalObservations int              `json:"totalObservaciones"`
		OverallAverage    float64          `json:"promedioGeneral"`
		AttendanceRate    float64          `json:"tasaAsistencia"`
		TopSubjects       []SubjectAverage `json:"topAsignaturas"`
	}

	Repository interface {
		Snapshot(ctx context.Context) (Snapshot, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get(ctx context.Context) (Summary, error) {
	snap, err := svc.repo.Snapshot(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Compute(snap), nil
}

// Compute folds a Snapshot into a Summary. Empty inputs yield zeroes, never NaN.
//
// AttendanceRate counts late students as attending. TopSubjects ranks subjects having at least
// one grade by descending average, then ascending name, then id.
func Compute(snap Snapshot) Summary {
	sum := Summary{
		TotalStudents:     snap.Students,
		TotalTeachers:     snap.Teachers,
		TotalCourses:      snap.Courses,
		TotalSubjects:     snap.Subjects,
		TotalGrades:       len(snap.Grades),
		TotalAttendance:   len(snap.Attendance),
		TotalObservations: snap.Observations,
		TopSubjects:       []SubjectAverage{},
	}

	type acc struct {
		name  string
		total float64
		count int
	}
	var (
		total     float64
		bySubject = make(map[int]*acc)
	)
	for _, g := range snap.Grades {
		total += g.Value
		a, ok := bySubject[g.SubjectID]
		if !ok {
			a = &acc{name: g.SubjectName}
			bySubject[g.SubjectID] = a
		}
		a.total += g.Value
		a.count++
	}
	if len(snap.Grades) > 0 {
		sum.OverallAverage = total / float64(len(snap.Grades))
	}

	if len(snap.Attendance) > 0 {
		var attended int
		for _, status := range snap.Attendance {
			if status == attendance.StatusPresent || status == attendance.StatusLate {
				attended++
			}
		}
		sum.AttendanceRate = float64(attended) / float64(len(snap.Attendance)) * 100
	}

	for id, a := range bySubject {
		sum.TopSubjects = append(sum.TopSubjects, SubjectAverage{ID: id, Name: a.name, Average: a.total / float64(a.count)})
	}
	sort.Slice(sum.TopSubjects, func(i, j int) bool {
		si, sj := sum.TopSubjects[i], sum.TopSubjects[j]
		if si.Average != sj.Average {
			return si.Average > sj.Average
		}
		if si.Name != sj.Name {
			return si.Name < sj.Name
		}
		return si.ID < sj.ID
	})
	if len(sum.TopSubjects) > TopSubjectsLimit {
		sum.TopSubjects = sum.TopSubjects[:TopSubjectsLimit]
	}
	return sum
}
