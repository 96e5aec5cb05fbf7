package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/teacher"
	"github.com/liceo-app/liceo/core/user"
)

// SubjectLink is the body of the "link a subject" endpoints.
type SubjectLink struct {
	SubjectID int `json:"asignaturaId"`
}

func (sl SubjectLink) Validate() error {
	if sl.SubjectID <= 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "asignaturaId", Error: "asignaturaId is required"})
	}
	return nil
}

type teacherApi struct {
	svc *teacher.Service
}

func registerTeacherAPI(g *echo.Group, auth *authenticator, svc *teacher.Service) {
	api := teacherApi{svc: svc}
	admin := auth.rolesMiddleware(user.RoleAdmin)

	tg := g.Group("/profesores")
	tg.GET("", api.query)
	tg.POST("", api.create, admin)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update, admin)
	tg.DELETE("/:id", api.destroy, admin)
	tg.POST("/:id/asignaturas", api.addSubject, admin)
	tg.DELETE("/:id/asignaturas/:asignaturaId", api.removeSubject, admin)
}

func (api *teacherApi) query(ctx echo.Context) error {
	teachers, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []teacher.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	t, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding teacher by ID")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	t, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *teacherApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var data teacher.UpdateTeacher
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	t, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *teacherApi) addSubject(ctx echo.Context) error {
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
	t, err := api.svc.AddSubject(ctx.Request().Context(), id, data.SubjectID)
	if err != nil {
		return errors.Wrap(err, "adding teacher subject")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) removeSubject(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	subjectID, err := paramID(ctx, "asignaturaId")
	if err != nil {
		return err
	}
	if err = api.svc.RemoveSubject(ctx.Request().Context(), id, subjectID); err != nil {
		return errors.Wrap(err, "removing teacher subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}
