package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core/observation"
	"github.com/liceo-app/liceo/core/user"
)

type observationApi struct {
	svc *observation.Service
}

func registerObservationAPI(g *echo.Group, auth *authenticator, svc *observation.Service) {
	api := observationApi{svc: svc}
	staff := auth.rolesMiddleware(user.RoleAdmin, user.RoleTeacher)

	og := g.Group("/observaciones")
	og.GET("", api.query)
	og.POST("", api.create, staff)
	og.GET("/estudiante/:id", api.queryBy(svc.QueryByStudent, "querying observations by student"))
	og.GET("/profesor/:id", api.queryBy(svc.QueryByTeacher, "querying observations by teacher"))
	og.GET("/:id", api.retrieve)
	og.PUT("/:id", api.update, staff)
	og.DELETE("/:id", api.destroy, staff)
}

func (api *observationApi) query(ctx echo.Context) error {
	observations, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying observations")
	}
	return ctx.JSON(http.StatusOK, nonNilObservations(observations))
}

func (api *observationApi) queryBy(query func(context.Context, int) ([]observation.Observation, error), msg string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := paramID(ctx, "id")
		if err != nil {
			return err
		}
		observations, err := query(ctx.Request().Context(), id)
		if err != nil {
			return errors.Wrap(err, msg)
		}
		return ctx.JSON(http.StatusOK, nonNilObservations(observations))
	}
}

func (api *observationApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	o, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding observation by ID")
	}
	return ctx.JSON(http.StatusOK, o)
}

func (api *observationApi) create(ctx echo.Context) error {
	var data observation.NewObservation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewObservation")
	}
	o, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating observation")
	}
	return ctx.JSON(http.StatusCreated, o)
}

func (api *observationApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var data observation.UpdateObservation
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateObservation")
	}
	o, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating observation")
	}
	return ctx.JSON(http.StatusOK, o)
}

func (api *observationApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting observation")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func nonNilObservations(observations []observation.Observation) []observation.Observation {
	if observations == nil {
		return []observation.Observation{}
	}
	return observations
}
