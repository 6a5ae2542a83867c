package handler

import (
	pkgvalidator "mentormatch/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func formatValidationError(err error) string {
	return pkgvalidator.FormatValidationError(err)
}

func parseUUIDParam(c *gin.Context, key string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(key))
}
