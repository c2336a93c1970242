package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/segyhp/lending-engine/pkg/response"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// dependency is one backing service the readiness check pings. A nil ping
// means the dependency is not configured.
type dependency struct {
	name string
	ping func(ctx context.Context) error
}

// HealthHandler serves liveness and readiness. Liveness never touches a
// dependency.
type HealthHandler struct {
	dependencies []dependency
	timeout      time.Duration
}

// NewHealthHandler checks Postgres and, when redisClient is set, Redis.
func NewHealthHandler(db *sqlx.DB, redisClient *redis.Client, timeout time.Duration) *HealthHandler {
	redisDep := dependency{name: "redis"}
	if redisClient != nil {
		redisDep.ping = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	return &HealthHandler{
		dependencies: []dependency{
			{name: "database", ping: db.PingContext},
			redisDep,
		},
		timeout: timeout,
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, HealthStatus{Status: "ok", Timestamp: time.Now().UTC()})
}

// Ready answers 503 when any configured dependency fails its ping within
// the timeout.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]string, len(h.dependencies)),
	}
	for _, dep := range h.dependencies {
		if dep.ping == nil {
			status.Checks[dep.name] = "disabled"
			continue
		}
		if err := dep.ping(ctx); err != nil {
			status.Status = "unavailable"
			status.Checks[dep.name] = "failed: " + err.Error()
			continue
		}
		status.Checks[dep.name] = "ok"
	}

	if status.Status != "ok" {
		response.JSON(w, http.StatusServiceUnavailable, status)
		return
	}
	response.Success(w, status)
}
