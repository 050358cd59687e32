package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/jsphweid/supernovae/model"
	"github.com/jsphweid/supernovae/store"
)

// Source is the run store as seen by the feed.
type Source interface {
	Runs() ([]store.Run, error)
	Run(id string) (*store.Run, error)
	Notes(runID string) ([]model.NoteEvent, error)
	Frame(runID string, index int) (model.Frame, error)
	DeleteRun(id string) error
}

type Server struct {
	source Source
	log    *zap.SugaredLogger
}

// New returns the feed handler, open to any origin.
func New(source Source, log *zap.SugaredLogger) http.Handler {
	s := &Server{source: source, log: log}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/runs", s.handleRuns).Methods("GET")
	router.HandleFunc("/runs/{id}", s.handleRun).Methods("GET")
	router.HandleFunc("/runs/{id}", s.handleDeleteRun).Methods("DELETE")
	router.HandleFunc("/runs/{id}/notes", s.handleNotes).Methods("GET")
	router.HandleFunc("/runs/{id}/frames/{index:[0-9]+}", s.handleFrame).Methods("GET")

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodDelete},
	}).Handler(router)
}

func (s *Server) write(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorw("could not encode response", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.log.Errorw("request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.source.Runs()
	if err != nil {
		s.fail(w, err)
		return
	}
	s.write(w, runs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.source.Run(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	s.write(w, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.source.DeleteRun(id); err != nil {
		s.fail(w, err)
		return
	}
	s.log.Infow("deleted run", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.source.Notes(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	s.write(w, notes)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		http.Error(w, "bad frame index", http.StatusBadRequest)
		return
	}
	f, err := s.source.Frame(vars["id"], index)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.write(w, f)
}
