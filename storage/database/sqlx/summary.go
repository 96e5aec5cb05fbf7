package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/queries"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/summary"
)

type countsRow struct {
	Students     int `db:"estudiantes"`
	Teachers     int `db:"profesores"`
	Courses      int `db:"cursos"`
	Subjects     int `db:"asignaturas"`
	Observations int `db:"observaciones"`
}

type gradeValueRow struct {
	Valor            float64 `boil:"valor"`
	AsignaturaID     int     `boil:"asignatura_id"`
	AsignaturaNombre string  `boil:"asignatura_nombre"`
}

type summaryRepository struct {
	db core.DBExecutor
}

var _ summary.Repository = (*summaryRepository)(nil) // interface compliance check

func NewSummaryRepository(db core.DBExecutor) *summaryRepository {
	return &summaryRepository{db: db}
}

func (repo *summaryRepository) Snapshot(ctx context.Context) (summary.Snapshot, error) {
	var counts countsRow
	err := repo.db.GetContext(ctx, &counts, `
		SELECT
			(SELECT COUNT(*) FROM estudiante) AS estudiantes,
			(SELECT COUNT(*) FROM profesor) AS profesores,
			(SELECT COUNT(*) FROM curso) AS cursos,
			(SELECT COUNT(*) FROM asignatura) AS asignaturas,
			(SELECT COUNT(*) FROM observacion) AS observaciones`)
	if err != nil {
		return summary.Snapshot{}, errors.Wrap(err, "counting rows")
	}

	var grades []gradeValueRow
	err = queries.Raw(`
		SELECT g.valor, g.asignatura_id, a.nombre AS asignatura_nombre
		FROM calificacion g JOIN asignatura a ON a.id = g.asignatura_id`,
	).Bind(ctx, repo.db, &grades)
	if err != nil {
		return summary.Snapshot{}, errors.Wrap(err, "loading grade values")
	}

	var statuses []string
	if err = repo.db.SelectContext(ctx, &statuses, "SELECT estado FROM asistencia"); err != nil {
		return summary.Snapshot{}, errors.Wrap(err, "loading attendance statuses")
	}

	snap := summary.Snapshot{
		Students:     counts.Students,
		Teachers:     counts.Teachers,
		Courses:      counts.Courses,
		Subjects:     counts.Subjects,
		Observations: counts.Observations,
		Grades:       make([]summary.GradeValue, 0, len(grades)),
		Attendance:   statuses,
	}
	for _, g := range grades {
		snap.Grades = append(snap.Grades, summary.GradeValue{
			Value:       g.Valor,
			SubjectID:   g.AsignaturaID,
			SubjectName: g.AsignaturaNombre,
		})
	}
	return snap, nil
}
