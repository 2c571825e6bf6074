package api

import (
	"github.com/gin-gonic/gin"

	"github.com/vladimiradmaev/fitscan-coach/internal/errors"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
)

func errorBody(err error) gin.H {
	return gin.H{
		"status":  "error",
		"message": errors.UserMessage(err),
	}
}

// respondError logs err by type and writes the error body with the matching
// status code.
func respondError(c *gin.Context, err error) {
	errors.NewHandler(logger.GetLogger()).Handle(c.Request.Context(), err)
	c.JSON(errors.HTTPStatus(err), errorBody(err))
}

func abortWithError(c *gin.Context, err error) {
	errors.NewHandler(logger.GetLogger()).Handle(c.Request.Context(), err)
	c.AbortWithStatusJSON(errors.HTTPStatus(err), errorBody(err))
}

func invalidBody(err error) error {
	return errors.Wrap(err, errors.ErrorTypeValidation, "INVALID_BODY", "Dados da requisição inválidos")
}
