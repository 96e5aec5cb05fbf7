package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core/summary"
)

func registerSummaryAPI(g *echo.Group, svc *summary.Service) {
	g.GET("/summary", func(ctx echo.Context) error {
		sum, err := svc.Get(ctx.Request().Context())
		if err != nil {
			return errors.Wrap(err, "computing summary")
		}
		return ctx.JSON(http.StatusOK, sum)
	})
}
