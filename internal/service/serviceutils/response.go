package serviceutils

import (
	"github.com/labstack/echo/v4"
)

// Response is the JSON envelope of every non-file reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ResponseSuccess(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ResponseError replies with message. err is exposed to the client, so
// callers pass nil when its text must stay internal.
func ResponseError(c echo.Context, status int, message string, err error) error {
	resp := Response{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(status, resp)
}

// ResponseErrorData is ResponseError with a data payload describing the failure.
func ResponseErrorData(c echo.Context, status int, message string, err error, data interface{}) error {
	resp := Response{Message: message, Data: data}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(status, resp)
}
