package handler

import (
	"context"
	"net/http"
	"time"

	"paulinepos/internal/worker"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by every snapshot repository.
type Pinger interface {
	Ping(ctx context.Context) error
	Backend() string
}

// Hydration is satisfied by *store.Store.
type Hydration interface {
	Hydrated() bool
}

// PersisterStatus is satisfied by *worker.Persister.
type PersisterStatus interface {
	Status() worker.PersisterStatus
}

// Health reports the storage backend, hydration and persister state.
// It never exposes credentials or internals.
func Health(repo Pinger, st Hydration, p PersisterStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		storage := "connected"
		if repo.Ping(ctx) != nil {
			storage = "error"
		}

		status := http.StatusOK
		if storage != "connected" || !st.Hydrated() {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":        status == http.StatusOK,
			"backend":   repo.Backend(),
			"storage":   storage,
			"hydrated":  st.Hydrated(),
			"persister": p.Status(),
		})
	}
}
