package app

import (
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// Health summarizes the state of the service for the health endpoint.
func (a *App) Health() HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if res := a.Last(); res == nil {
		status.Components["analysis"] = "pending"
	} else {
		status.Components["analysis"] = fmt.Sprintf("ok (%d files, %d edges, %d failures)",
			res.Repo.Graph().Len(), res.Repo.Graph().EdgeCount(), len(res.Failures))
	}

	status.Components["semi_cache"] = fmt.Sprintf("ok (%d files)", a.source.Len())

	if a.store != nil {
		status.Components["history"] = "ok"
	} else if a.Config.DB.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}
	return status
}
