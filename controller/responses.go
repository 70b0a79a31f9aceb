package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/golang/glog"

	e "github.com/Chilfish/anonTweet-sub001/errors"
)

func respondWithData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		glog.Errorf("json.NewEncoder(w).Encode(data) %+v", err)
	}
}

// respondWithPayload writes an opaque record payload without re-encoding
func respondWithPayload(w http.ResponseWriter, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if _, err := w.Write(payload); err != nil {
		glog.Errorf("w.Write(payload) %+v", err)
	}
}

func respondWithErrorMessage(
	w http.ResponseWriter,
	message string,
	statusCode int,
) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(
		map[string]string{"error": message},
	); err != nil {
		glog.Errorf("json.NewEncoder(w).Encode() %+v", err)
	}
}

// respondWithError maps the error taxonomy onto HTTP statuses. A read
// served entirely by the origin is never an error by itself; only an
// origin-confirmed absence or a transport failure reaches here.
func respondWithError(w http.ResponseWriter, err error) {
	switch {
	case e.IsNotFound(err):
		respondWithErrorMessage(w, err.Error(), http.StatusNotFound)
	case e.IsTransient(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		w.Header().Set("Retry-After", "5")
		respondWithErrorMessage(w, err.Error(), http.StatusServiceUnavailable)
	default:
		glog.Errorf("%+v", err)
		respondWithErrorMessage(w, "internal error", http.StatusInternalServerError)
	}
}

func respondWithOptions(w http.ResponseWriter, options []string) {
	for _, option := range options {
		w.Header().Add("Allow", option)
	}
	w.WriteHeader(http.StatusOK)
}
