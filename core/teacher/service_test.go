package teacher_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/course"
	"github.com/liceo-app/liceo/core/teacher"
	"github.com/liceo-app/liceo/tests"
)

func TestService_subjects(t *testing.T) {
	svcs := testutil.NewServices(time.UTC)
	ctx := context.Background()

	profe := testutil.CreateTeacher(t, svcs.Teacher, "Ana", "Rojas")
	math := testutil.CreateSubject(t, svcs.Subject, "Matematicas")
	arte := testutil.CreateSubject(t, svcs.Subject, "Arte")

	// linking twice keeps a single link
	for i := 0; i < 2; i++ {
		_, err := svcs.Teacher.AddSubject(ctx, profe.ID, math.ID)
		require.NoError(t, err)
	}
	got, err := svcs.Teacher.AddSubject(ctx, profe.ID, arte.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{math.ID, arte.ID}, subjectIDs(got))

	_, err = svcs.Teacher.AddSubject(ctx, profe.ID, 999)
	assert.True(t, core.IsNotFound(err), "unknown subject: %v", err)
	_, err = svcs.Teacher.AddSubject(ctx, 999, math.ID)
	assert.True(t, core.IsNotFound(err), "unknown teacher: %v", err)

	require.NoError(t, svcs.Teacher.RemoveSubject(ctx, profe.ID, math.ID))
	assert.True(t, core.IsNotFound(svcs.Teacher.RemoveSubject(ctx, profe.ID, math.ID)))

	// deleting a subject drops its links
	require.NoError(t, svcs.Subject.Delete(ctx, arte.ID))
	got, err = svcs.Teacher.GetByID(ctx, profe.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Subjects)
}

func TestService_update(t *testing.T) {
	svcs := testutil.NewServices(time.UTC)
	ctx := context.Background()
	profe := testutil.CreateTeacher(t, svcs.Teacher, "Ana", "Rojas")

	name, sex := "  Ana María ", "m"
	got, err := svcs.Teacher.Update(ctx, profe.ID, teacher.UpdateTeacher{Name: &name, Sex: &sex})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", got.Name)
	assert.Equal(t, "Rojas", got.Surname)
	assert.Equal(t, "M", got.Sex)
	assert.Equal(t, 40, got.Age)

	tooYoung := teacher.MinAge - 1
	_, err = svcs.Teacher.Update(ctx, profe.ID, teacher.UpdateTeacher{Age: &tooYoung})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "edad", vErr.Fields[0].Field)

	_, err = svcs.Teacher.Update(ctx, 999, teacher.UpdateTeacher{Name: &name})
	assert.True(t, core.IsNotFound(err))
}

func TestService_deleteReleasesCourses(t *testing.T) {
	svcs := testutil.NewServices(time.UTC)
	ctx := context.Background()
	profe := testutil.CreateTeacher(t, svcs.Teacher, "Ana", "Rojas")

	c, err := svcs.Course.Create(ctx, course.NewCourse{Name: "1° Medio A", HeadTeacherID: profe.ID})
	require.NoError(t, err)
	require.NotNil(t, c.HeadTeacher)

	require.NoError(t, svcs.Teacher.Delete(ctx, profe.ID))
	assert.True(t, core.IsNotFound(svcs.Teacher.Delete(ctx, profe.ID)))

	c, err = svcs.Course.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, c.HeadTeacher)
}

func subjectIDs(t teacher.Teacher) []int {
	ids := make([]int, 0, len(t.Subjects))
	for _, s := range t.Subjects {
		ids = append(ids, s.ID)
	}
	return ids
}
