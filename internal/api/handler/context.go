package handler

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/batagalla/mushmind-detector/internal/api/middleware"
	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

// actor returns the identity set by the Auth middleware. A handler mounted
// without the guard fails closed with 401.
func actor(c echo.Context) (*domain.User, error) {
	u, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated").SetInternal(domain.ErrUnauthorized)
	}
	return u, nil
}

// bindValid decodes the body into req and runs the struct validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid payload")
	}
	return c.Validate(req)
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}
