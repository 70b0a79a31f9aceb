package controller

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Chilfish/anonTweet-sub001/models"
)

// RecordController serves the read entry points for every record kind
type RecordController struct {
	records *models.RecordCache
}

// NewRecordController creates the controller around the record cache
func NewRecordController(records *models.RecordCache) *RecordController {
	return &RecordController{records: records}
}

// PostHandler is a web handler
func (ctl *RecordController) PostHandler(w http.ResponseWriter, r *http.Request) {
	ctl.read(w, r, models.KindPost, mux.Vars(r)["post_id"])
}

// RepliesHandler is a web handler
func (ctl *RecordController) RepliesHandler(w http.ResponseWriter, r *http.Request) {
	ctl.read(w, r, models.KindPostReplies, mux.Vars(r)["post_id"])
}

// ProfileHandler is a web handler
func (ctl *RecordController) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctl.read(w, r, models.KindUserProfile, mux.Vars(r)["username"])
}

// TimelineHandler is a web handler
func (ctl *RecordController) TimelineHandler(w http.ResponseWriter, r *http.Request) {
	ctl.read(w, r, models.KindUserTimeline, mux.Vars(r)["username"])
}

func (ctl *RecordController) read(
	w http.ResponseWriter,
	r *http.Request,
	kind models.RecordKind,
	id string,
) {
	switch r.Method {
	case "OPTIONS":
		respondWithOptions(w, []string{"OPTIONS", "HEAD", "GET"})
		return
	case "HEAD", "GET":
		// fall through
	default:
		respondWithErrorMessage(w, "method not allowed",
			http.StatusMethodNotAllowed)
		return
	}

	payload, err := ctl.records.Get(r.Context(), kind, id)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithPayload(w, payload)
}
