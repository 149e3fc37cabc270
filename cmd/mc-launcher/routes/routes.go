package routes

import (
	"encoding/json"
	"github.com/julienschmidt/httprouter"
	"github.com/mrmelon54/mc-launcher-core"
	"github.com/mrmelon54/mc-launcher-core/database"
	"github.com/mrmelon54/mc-launcher-core/instance"
	"github.com/mrmelon54/mc-launcher-core/manifest"
	"go.uber.org/zap"
	"net/http"
	"sync/atomic"
)

type routeCtx struct {
	orch   *instance.Orchestrator
	db     *database.Queries
	cache  *manifest.Cache
	conf   *atomic.Pointer[mc_launcher_core.LauncherConfig]
	logger *zap.Logger
}

func Router(orch *instance.Orchestrator, db *database.Queries, cache *manifest.Cache, conf *atomic.Pointer[mc_launcher_core.LauncherConfig], logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := routeCtx{orch, db, cache, conf, logger.Named("routes")}

	r := httprouter.New()
	r.GET("/versions", base.versionsGet)
	r.GET("/instances", base.instancesGet)
	r.GET("/instances/:name", base.instanceGet)
	r.POST("/instances/:name", base.instancePost)
	r.DELETE("/instances/:name", base.instanceDelete)
	r.GET("/instances/:name/launch", base.instanceLaunchGet)
	return r
}

func writeJson(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
