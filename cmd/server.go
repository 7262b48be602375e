package cmd

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/gorilla/mux"
	"github.com/jsphweid/cuegrid/cues"
	"github.com/jsphweid/cuegrid/logger"
	"github.com/jsphweid/cuegrid/midi"
	"github.com/jsphweid/cuegrid/model"
	"github.com/jsphweid/cuegrid/pathbuilder"
	"github.com/jsphweid/cuegrid/qnt"
	"github.com/jsphweid/cuegrid/session"
	"github.com/jsphweid/cuegrid/target"
	"github.com/jsphweid/cuegrid/timeline"
	"github.com/jsphweid/cuegrid/util"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

var errBadRequest = errors.New("bad request")

// Server exposes one session over HTTP. Every handler holds mu for the whole
// request; the session itself is single threaded.
type Server struct {
	mu           sync.Mutex
	session      *session.Session
	logger       *logger.Logger
	snapshotPath string
	debounced    func(f func())
}

// NewServer saves a snapshot to snapshotPath a moment after the last edit.
// An empty path never saves.
func NewServer(s *session.Session, l *logger.Logger, snapshotPath string, saveDelay time.Duration) *Server {
	return &Server{
		session:      s,
		logger:       l.With("server"),
		snapshotPath: snapshotPath,
		debounced:    debounce.New(saveDelay),
	}
}

func (srv *Server) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/chart", srv.HandleChart).Methods("GET")
	router.HandleFunc("/chart/import", srv.HandleImport).Methods("POST")
	router.HandleFunc("/selection", srv.HandleGetSelection).Methods("GET")
	router.HandleFunc("/selection", srv.HandleSelect).Methods("PUT")
	router.HandleFunc("/targets", srv.HandleListTargets).Methods("GET")
	router.HandleFunc("/targets", srv.HandlePlaceTarget).Methods("POST")
	router.HandleFunc("/targets/{id:[0-9]+}", srv.HandleUpdateTarget).Methods("PATCH")
	router.HandleFunc("/targets/{id:[0-9]+}", srv.HandleRemoveTarget).Methods("DELETE")
	router.HandleFunc("/chains", srv.HandleNewChain).Methods("POST")
	router.HandleFunc("/builders/{id:[0-9]+}", srv.HandleGetBuilder).Methods("GET")
	router.HandleFunc("/builders/{id:[0-9]+}", srv.HandleDetachBuilder).Methods("DELETE")
	router.HandleFunc("/builders/{id:[0-9]+}/params", srv.HandleConfigureBuilder).Methods("PUT")
	router.HandleFunc("/builders/{id:[0-9]+}/activate", srv.HandleActivateBuilder).Methods("POST")
	router.HandleFunc("/builders/{id:[0-9]+}/deactivate", srv.HandleDeactivateBuilder).Methods("POST")
	return cors.Default().Handler(router)
}

func (srv *Server) HandleChart(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	writeJSON(w, http.StatusOK, srv.session.Snapshot())
}

// HandleImport reads a MIDI file from the request body and adds its cues.
func (srv *Server) HandleImport(w http.ResponseWriter, r *http.Request) {
	file, err := midi.Read(r.Body)
	if err != nil {
		srv.writeError(w, errors.Wrap(errBadRequest, err.Error()))
		return
	}
	cs, err := cues.FromSMF(file, cues.DefaultOptions())
	if err != nil {
		srv.writeError(w, errors.Wrap(errBadRequest, err.Error()))
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	imported, err := srv.session.ImportCues(cs)
	if len(imported) > 0 {
		srv.scheduleSave()
	}
	if err != nil {
		srv.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, records(imported))
}

func (srv *Server) HandleGetSelection(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	writeJSON(w, http.StatusOK, srv.selection())
}

func (srv *Server) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req model.SelectionRequest
	if !srv.decode(w, r, &req) {
		return
	}
	var (
		tool session.Tool
		mode session.Mode
		err  error
	)
	if req.Tool != "" {
		if tool, err = session.ParseTool(req.Tool); err != nil {
			srv.writeError(w, errors.Wrap(errBadRequest, err.Error()))
			return
		}
	}
	if req.Mode != "" {
		if mode, err = session.ParseMode(req.Mode); err != nil {
			srv.writeError(w, errors.Wrap(errBadRequest, err.Error()))
			return
		}
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if req.Tool != "" {
		srv.session.SelectTool(tool)
	}
	if req.Hand != nil {
		srv.session.SelectHand(*req.Hand)
	}
	if req.Velocity != nil {
		srv.session.SelectVelocity(*req.Velocity)
	}
	if req.Mode != "" {
		srv.session.SelectMode(mode)
	}
	writeJSON(w, http.StatusOK, srv.selection())
}

// HandleListTargets takes optional start and end ticks, end exclusive.
func (srv *Server) HandleListTargets(w http.ResponseWriter, r *http.Request) {
	start, err := queryTick(r, "start", 0)
	if err != nil {
		srv.writeError(w, err)
		return
	}
	end, err := queryTick(r, "end", ^uint64(0))
	if err != nil {
		srv.writeError(w, err)
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	seq := srv.session.Timeline().Range(qnt.FromTicks(start), qnt.FromTicks(end))
	writeJSON(w, http.StatusOK, records(seq.Collect()))
}

func (srv *Server) HandlePlaceTarget(w http.ResponseWriter, r *http.Request) {
	var req model.PlaceTargetRequest
	if !srv.decode(w, r, &req) {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	t, err := srv.session.PlaceTarget(req.X, req.Y, qnt.FromTicks(req.Tick))
	if err != nil {
		srv.writeError(w, err)
		return
	}
	srv.scheduleSave()
	writeJSON(w, http.StatusCreated, session.Record(t))
}

func (srv *Server) HandleUpdateTarget(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var req model.UpdateTargetRequest
	if !srv.decode(w, r, &req) {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	t, ok := srv.session.Lookup(id)
	if !ok {
		srv.writeError(w, errors.Wrapf(timeline.ErrNotFound, "target %d", id))
		return
	}
	if req.X != nil || req.Y != nil {
		x, y := t.X(), t.Y()
		if req.X != nil {
			x = *req.X
		}
		if req.Y != nil {
			y = *req.Y
		}
		t.SetPosition(x, y)
	}
	if req.Tick != nil {
		t.SetTime(qnt.FromTicks(*req.Tick))
	}
	if req.TickLength != nil {
		t.SetLength(qnt.DurationFromTicks(*req.TickLength))
	}
	if req.Velocity != nil {
		t.SetVelocity(*req.Velocity)
	}
	if req.Hand != nil {
		t.SetHand(*req.Hand)
	}
	if req.Behavior != nil {
		t.SetBehavior(*req.Behavior)
	}
	srv.scheduleSave()
	writeJSON(w, http.StatusOK, session.Record(t))
}

func (srv *Server) HandleRemoveTarget(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if err := srv.session.RemoveTarget(pathID(r)); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.scheduleSave()
	w.WriteHeader(http.StatusNoContent)
}

func (srv *Server) HandleNewChain(w http.ResponseWriter, r *http.Request) {
	var req model.PlaceTargetRequest
	if !srv.decode(w, r, &req) {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	b, err := srv.session.NewChain(req.X, req.Y, qnt.FromTicks(req.Tick))
	if err != nil {
		srv.writeError(w, err)
		return
	}
	srv.scheduleSave()
	writeJSON(w, http.StatusCreated, b.Record())
}

func (srv *Server) HandleGetBuilder(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	b, err := srv.session.PathBuilder(pathID(r))
	if err != nil {
		srv.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b.Record())
}

func (srv *Server) HandleDetachBuilder(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if err := srv.session.DetachPathBuilder(pathID(r)); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.scheduleSave()
	w.WriteHeader(http.StatusNoContent)
}

// HandleConfigureBuilder attaches a builder to the target when it has none.
func (srv *Server) HandleConfigureBuilder(w http.ResponseWriter, r *http.Request) {
	var req model.PathParams
	if !srv.decode(w, r, &req) {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	b, err := srv.session.AttachPathBuilder(pathID(r))
	if err != nil {
		srv.writeError(w, err)
		return
	}
	params, policy := pathbuilder.FromRecord(req)
	if err := b.Configure(params, policy); err != nil {
		srv.writeError(w, err)
		return
	}
	srv.scheduleSave()
	writeJSON(w, http.StatusOK, b.Record())
}

func (srv *Server) HandleActivateBuilder(w http.ResponseWriter, r *http.Request) {
	srv.withBuilder(w, r, func(b *pathbuilder.Builder) error { return b.Activate(nil) })
}

func (srv *Server) HandleDeactivateBuilder(w http.ResponseWriter, r *http.Request) {
	srv.withBuilder(w, r, (*pathbuilder.Builder).Deactivate)
}

func (srv *Server) withBuilder(w http.ResponseWriter, r *http.Request, fn func(*pathbuilder.Builder) error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	b, err := srv.session.PathBuilder(pathID(r))
	if err == nil {
		err = fn(b)
	}
	if err != nil {
		srv.writeError(w, err)
		return
	}
	srv.scheduleSave()
	writeJSON(w, http.StatusOK, b.Record())
}

// save writes the snapshot now. Callers hold mu.
func (srv *Server) save() error {
	if srv.snapshotPath == "" {
		return nil
	}
	return util.CreateBinary(srv.snapshotPath, srv.session.Snapshot())
}

func (srv *Server) scheduleSave() {
	if srv.snapshotPath == "" {
		return
	}
	srv.debounced(func() {
		srv.mu.Lock()
		defer srv.mu.Unlock()
		if err := srv.save(); err != nil {
			srv.logger.Errorf("could not save snapshot: %v", err)
			return
		}
		srv.logger.Debugf("saved %v", srv.snapshotPath)
	})
}

func (srv *Server) selection() model.SelectionResponse {
	return model.SelectionResponse{
		Tool:     srv.session.Tool().String(),
		Hand:     srv.session.Hand(),
		Velocity: srv.session.Velocity(),
		Behavior: srv.session.Behavior(),
		Mode:     srv.session.Mode().String(),
	}
}

func (srv *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		srv.writeError(w, errors.Wrap(errBadRequest, "could not decode request body: "+err.Error()))
		return false
	}
	return true
}

func (srv *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, pathbuilder.ErrInvalidParameter):
		status = http.StatusBadRequest
	case errors.Is(err, timeline.ErrNotFound), errors.Is(err, session.ErrNoPathBuilder):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrCannotPlace), errors.Is(err, session.ErrGeneratedAnchor),
		errors.Is(err, timeline.ErrDuplicateID):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		srv.logger.Errorf("%v", err)
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

// writeJSON encodes before writing the header, so a value that can't be
// encoded turns into a 500 instead of an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(model.ErrorResponse{Error: errors.Wrap(err, "could not encode response").Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

func records(ts []*target.Target) []model.TargetRecord {
	res := make([]model.TargetRecord, 0, len(ts))
	for _, t := range ts {
		res = append(res, session.Record(t))
	}
	return res
}

// pathID is safe to call on routes whose id is constrained to digits.
func pathID(r *http.Request) target.ID {
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return target.ID(id)
}

func queryTick(r *http.Request, key string, def uint64) (uint64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	tick, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errBadRequest, "%v must be a tick count", key)
	}
	return tick, nil
}
