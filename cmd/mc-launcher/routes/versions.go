package routes

import (
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
	"net/http"
)

func (r routeCtx) versionsGet(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	r.cache.Ensure()
	ids, err := r.cache.Versions(req.URL.Query().Has("snapshots"))
	if err != nil {
		r.logger.Warn("Version manifest unavailable", zap.Error(err))
		http.Error(rw, "503 Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJson(rw, http.StatusOK, ids)
}
