package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/statusdeck/statusdeck/internal/domain"
	"gorm.io/gorm"
)

// respondError maps domain failures onto HTTP responses. Infrastructure
// errors are logged and collapsed into the generic fallback so internal
// detail never reaches the caller.
func respondError(ctx *gin.Context, err error, fallback string) {
	var validation *domain.ValidationError
	var invariant *domain.InvariantViolation

	switch {
	case errors.As(err, &validation):
		body := gin.H{"message": validation.Message}
		if len(validation.Fields) > 0 {
			body["errors"] = validation.Fields
		}
		ctx.JSON(http.StatusBadRequest, body)
	case errors.As(err, &invariant):
		ctx.JSON(http.StatusBadRequest, gin.H{"message": invariant.Reason})
	case errors.Is(err, domain.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"message": fallback})
	default:
		log.Printf("%s: %v", fallback, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}
