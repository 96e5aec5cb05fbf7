package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/attendance"
	"github.com/liceo-app/liceo/core/user"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, auth *authenticator, svc *attendance.Service) {
	api := attendanceApi{svc: svc}
	staff := auth.rolesMiddleware(user.RoleAdmin, user.RoleTeacher)

	ag := g.Group("/asistencias")
	ag.GET("", api.query)
	ag.POST("", api.create, staff)
	ag.GET("/estadisticas", api.stats)
	ag.GET("/estudiante/:id", api.queryByStudent)
	ag.GET("/fecha/:fecha", api.queryByDate)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update, staff)
	ag.DELETE("/:id", api.destroy, staff)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	records, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, nonNilAttendance(records))
}

func (api *attendanceApi) queryByStudent(ctx echo.Context) error {
	studentID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	records, err := api.svc.QueryByStudent(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "querying attendance by student")
	}
	return ctx.JSON(http.StatusOK, nonNilAttendance(records))
}

func (api *attendanceApi) queryByDate(ctx echo.Context) error {
	records, err := api.svc.QueryByDate(ctx.Request().Context(), ctx.Param("fecha"))
	if err != nil {
		return errors.Wrap(err, "querying attendance by date")
	}
	return ctx.JSON(http.StatusOK, nonNilAttendance(records))
}

// stats serves the statistics of every record, or of one student's with ?estudianteId=.
func (api *attendanceApi) stats(ctx echo.Context) error {
	var studentID *int
	if raw := ctx.QueryParam("estudianteId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return core.NewValidationError(nil, core.FieldError{
				Field: "estudianteId",
				Error: "estudianteId must be a positive integer",
			})
		}
		studentID = &id
	}
	stats, err := api.svc.Stats(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "computing attendance stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	a, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding attendance by ID")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *attendanceApi) create(ctx echo.Context) error {
	var data attendance.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	a, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *attendanceApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var data attendance.UpdateAttendance
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAttendance")
	}
	a, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating attendance")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func nonNilAttendance(records []attendance.Attendance) []attendance.Attendance {
	if records == nil {
		return []attendance.Attendance{}
	}
	return records
}
