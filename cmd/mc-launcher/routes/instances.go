package routes

import (
	"database/sql"
	"errors"
	"github.com/julienschmidt/httprouter"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
	"github.com/mrmelon54/mc-launcher-core/database"
	"github.com/mrmelon54/mc-launcher-core/instance"
	launch_args "github.com/mrmelon54/mc-launcher-core/launch-args"
	"go.uber.org/zap"
	"net/http"
	"os"
)

func (r routeCtx) instancesGet(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	rows, err := r.db.ListInstances(req.Context())
	if err != nil {
		r.logger.Error("Database Error", zap.Error(err))
		http.Error(rw, "Database Error", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []database.Instance{}
	}
	writeJson(rw, http.StatusOK, rows)
}

func (r routeCtx) instanceGet(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	row, err := r.db.GetInstance(req.Context(), params.ByName("name"))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		http.Error(rw, "404 Not Found", http.StatusNotFound)
		return
	case err != nil:
		r.logger.Error("Database Error", zap.Error(err))
		http.Error(rw, "Database Error", http.StatusInternalServerError)
		return
	}
	writeJson(rw, http.StatusOK, row)
}

// createStatus maps a CreateInstance failure to a response status.
func createStatus(err error) int {
	switch {
	case errors.Is(err, instance.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, instance.ErrInstanceExists):
		return http.StatusConflict
	case errors.Is(err, acqerr.ErrVersionNotFound):
		return http.StatusNotFound
	case errors.Is(err, acqerr.ErrResourceNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, acqerr.ErrTransport), errors.Is(err, acqerr.ErrInvalidDownload):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (r routeCtx) instancePost(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	version := req.URL.Query().Get("version")
	if version == "" {
		http.Error(rw, "Missing version", http.StatusBadRequest)
		return
	}
	conf, err := r.orch.CreateInstance(req.Context(), version, params.ByName("name"))
	if err != nil {
		status := createStatus(err)
		r.logger.Warn("Failed to create instance", zap.String("name", params.ByName("name")), zap.Int("status", status), zap.Error(err))
		http.Error(rw, err.Error(), status)
		return
	}
	writeJson(rw, http.StatusCreated, conf)
}

// instanceDelete forgets the instance and removes its game directory.
// Shared libraries, assets and runtimes stay cached.
func (r routeCtx) instanceDelete(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	name := params.ByName("name")
	n, err := r.db.DeleteInstance(req.Context(), name)
	if err != nil {
		r.logger.Error("Database Error", zap.Error(err))
		http.Error(rw, "Database Error", http.StatusInternalServerError)
		return
	}
	if n == 0 {
		http.Error(rw, "404 Not Found", http.StatusNotFound)
		return
	}
	if err := os.RemoveAll(r.orch.InstanceDir(name)); err != nil {
		r.logger.Warn("Failed to remove instance directory", zap.String("name", name), zap.Error(err))
	}
	rw.WriteHeader(http.StatusNoContent)
}

func (r routeCtx) instanceLaunchGet(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
	username := req.URL.Query().Get("username")
	if username == "" {
		username = "Player"
	}
	args, err := r.orch.LaunchArguments(req.Context(), params.ByName("name"), launch_args.OfflineAccount(username), r.conf.Load().GameResolution())
	switch {
	case errors.Is(err, instance.ErrInstanceNotFound):
		http.Error(rw, "404 Not Found", http.StatusNotFound)
		return
	case err != nil:
		r.logger.Error("Failed to build launch arguments", zap.Error(err))
		http.Error(rw, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJson(rw, http.StatusOK, args)
}
