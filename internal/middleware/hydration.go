package middleware

import (
	"net/http"

	"paulinepos/internal/apierror"

	"github.com/gin-gonic/gin"
)

// Readiness is satisfied by *store.Store.
type Readiness interface {
	Hydrated() bool
}

// RequireHydrated answers 503 until the store has loaded its persisted
// snapshot, so no request can read or overwrite a half-initialized state.
func RequireHydrated(r Readiness) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.Hydrated() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				apierror.WithCode("not_ready", "Chargement des données en cours"))
			return
		}
		c.Next()
	}
}
