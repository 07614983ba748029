package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molrad/internal/interfaces/http/middleware"
	"github.com/turtacn/molrad/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeAppError maps err to its HTTP status through the error code table.
// Server-side failures are masked.
func writeAppError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	_ = c.Error(err)

	resp := ErrorResponse{Code: code.String(), RequestID: middleware.GetRequestID(c)}
	if status >= http.StatusInternalServerError {
		resp.Code = errors.CodeInternal.String()
		resp.Message = "internal server error"
	} else {
		resp.Message = err.Error()
		var ae *errors.AppError
		if errors.As(err, &ae) {
			resp.Detail = ae.Detail
		}
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, err error) {
	writeAppError(c, errors.InvalidParam("malformed request body").WithCause(err))
}

//Personal.AI order the ending
