package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mining-miniapp-backend/internal/services"
)

// respondError maps the service error taxonomy onto HTTP. Expected outcomes
// keep their kind in the body so the client can decide what to do; only
// storage/clock failures surface as 500.
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"code":    string(services.KindInternal),
			"message": "internal error",
		})
		return
	}

	status := http.StatusBadRequest
	switch svcErr.Kind {
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindInternal:
		status = http.StatusInternalServerError
	}

	c.JSON(status, gin.H{
		"success": false,
		"code":    string(svcErr.Kind),
		"message": svcErr.Message,
	})
}
