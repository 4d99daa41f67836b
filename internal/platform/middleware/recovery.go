package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
)

// Recovery converts handler panics into a 500 OperationOutcome so callers
// always receive a FHIR error body, and logs the stack for diagnosis.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				var stack [4096]byte
				n := runtime.Stack(stack[:], false)

				rid, _ := c.Get("request_id").(string)
				logger.Error().
					Str("request_id", rid).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(stack[:n])).
					Msg("panic recovered")

				err = c.JSON(
					http.StatusInternalServerError,
					fhir.InternalErrorOutcome("Internal server error."),
				)
			}()
			return next(c)
		}
	}
}
