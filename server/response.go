package server

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/keepalive/errors"
)

// RespondWithError writes err as a JSON error body. An *errors.AppError
// keeps its status and code; anything else becomes a 500.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
