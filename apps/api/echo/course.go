package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core/course"
	"github.com/liceo-app/liceo/core/user"
)

type courseApi struct {
	svc *course.Service
}

func registerCourseAPI(g *echo.Group, auth *authenticator, svc *course.Service) {
	api := courseApi{svc: svc}
	admin := auth.rolesMiddleware(user.RoleAdmin)

	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.POST("", api.create, admin)
	cg.GET("/profesor/:profesorId", api.queryByHeadTeacher)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update, admin)
	cg.DELETE("/:id", api.destroy, admin)
	cg.POST("/:id/asignaturas", api.addSubject, admin)
	cg.DELETE("/:id/asignaturas/:asignaturaId", api.removeSubject, admin)
}

func (api *courseApi) query(ctx echo.Context) error {
	courses, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, nonNilCourses(courses))
}

func (api *courseApi) queryByHeadTeacher(ctx echo.Context) error {
	teacherID, err := paramID(ctx, "profesorId")
	if err != nil {
		return err
	}
	courses, err := api.svc.QueryByHeadTeacher(ctx.Request().Context(), teacherID)
	if err != nil {
		return errors.Wrap(err, "querying courses by head teacher")
	}
	return ctx.JSON(http.StatusOK, nonNilCourses(courses))
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	c, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding course by ID")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courseApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var data course.UpdateCourse
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	c, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) addSubject(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var data SubjectLink
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubjectLink")
	}
	if err = data.Validate(); err != nil {
		return err
	}
	c, err := api.svc.AddSubject(ctx.Request().Context(), id, data.SubjectID)
	if err != nil {
		return errors.Wrap(err, "adding course subject")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) removeSubject(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	subjectID, err := paramID(ctx, "asignaturaId")
	if err != nil {
		return err
	}
	if err = api.svc.RemoveSubject(ctx.Request().Context(), id, subjectID); err != nil {
		return errors.Wrap(err, "removing course subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func nonNilCourses(courses []course.Course) []course.Course {
	if courses == nil {
		return []course.Course{}
	}
	return courses
}
