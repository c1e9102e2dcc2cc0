package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hireloop/hireloop/internal/workflow"
)

type errorResponse struct {
	Error          string   `json:"error"`
	Node           string   `json:"node,omitempty"`
	AllowedActions []string `json:"allowed_actions,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the workflow error taxonomy onto HTTP statuses. A
// transition violation is the caller's sequencing mistake (409 with the
// actions that would unblock it); lock contention is also 409; anything
// else is a server-side failure.
func writeError(w http.ResponseWriter, err error) {
	var transErr *workflow.TransitionError
	if errors.As(err, &transErr) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:          transErr.Error(),
			Node:           transErr.CurrentNode,
			AllowedActions: transErr.AllowedActions,
		})
		return
	}
	if errors.Is(err, workflow.ErrLockTimeout) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	if errors.Is(err, workflow.ErrCheckpointNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "job not found"})
		return
	}

	var nodeErr *workflow.NodeError
	if errors.As(err, &nodeErr) {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: nodeErr.Error(),
			Node:  string(nodeErr.Node),
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func writeNotFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: msg})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
