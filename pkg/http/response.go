package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// NotFoundMessage is returned for unknown routes.
const NotFoundMessage = "接口不存在"

// JSONResponse writes body as-is with status.
func JSONResponse(c echo.Context, status int, body interface{}) error {
	return c.JSON(status, body)
}

// SuccessResponse writes {"success":true,"data":data}.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// FailResponse writes {"success":false,"message":message}.
func FailResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, FailureResponse{Message: message})
}

// BadRequestResponse writes validation failures.
func BadRequestResponse(c echo.Context, errs []ValidationError) error {
	return c.JSON(http.StatusBadRequest, FailureResponse{
		Message: http.StatusText(http.StatusBadRequest),
		Errors:  errs,
	})
}

// NotFoundResponse writes the unknown-route body.
func NotFoundResponse(c echo.Context) error {
	return FailResponse(c, http.StatusNotFound, NotFoundMessage)
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return FailResponse(c, http.StatusInternalServerError, "Something went wrong")
}

// AppErrorResponse writes application error response.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status, FailureResponse{
			Message: appErr.Message,
			Errors:  []ValidationError{{Code: appErr.Code, Field: appErr.Field, Message: appErr.Message}},
		})
	}
	return InternalServerErrorResponse(c)
}
