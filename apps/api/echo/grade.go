package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core/grade"
	"github.com/liceo-app/liceo/core/user"
)

type gradeApi struct {
	svc *grade.Service
}

func registerGradeAPI(g *echo.Group, auth *authenticator, svc *grade.Service) {
	api := gradeApi{svc: svc}
	staff := auth.rolesMiddleware(user.RoleAdmin, user.RoleTeacher)

	gg := g.Group("/grades")
	gg.GET("", api.stats)
	gg.POST("", api.create, staff)
	gg.GET("/all", api.query)
	gg.GET("/estudiante/:id", api.queryBy(svc.QueryByStudent, "querying grades by student"))
	gg.GET("/asignatura/:id", api.queryBy(svc.QueryBySubject, "querying grades by subject"))
	gg.GET("/profesor/:id", api.queryBy(svc.QueryByTeacher, "querying grades by teacher"))
	gg.GET("/:id", api.retrieve)
	gg.PUT("/:id", api.update, staff)
	gg.DELETE("/:id", api.destroy, staff)
}

func (api *gradeApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing grade stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *gradeApi) query(ctx echo.Context) error {
	grades, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, nonNilGrades(grades))
}

// queryBy serves the grades filtered by the entity whose id is in the path.
func (api *gradeApi) queryBy(query func(context.Context, int) ([]grade.Grade, error), msg string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := paramID(ctx, "id")
		if err != nil {
			return err
		}
		grades, err := query(ctx.Request().Context(), id)
		if err != nil {
			return errors.Wrap(err, msg)
		}
		return ctx.JSON(http.StatusOK, nonNilGrades(grades))
	}
}

func (api *gradeApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	g, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding grade by ID")
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) create(ctx echo.Context) error {
	var data grade.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	g, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating grade")
	}
	return ctx.JSON(http.StatusCreated, g)
}

func (api *gradeApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var data grade.UpdateGrade
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGrade")
	}
	g, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating grade")
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func nonNilGrades(grades []grade.Grade) []grade.Grade {
	if grades == nil {
		return []grade.Grade{}
	}
	return grades
}
