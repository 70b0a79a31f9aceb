package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Chilfish/anonTweet-sub001/models"
)

// TranslationsController serves the translated-entity read and write
// entry points. Writes go straight to the persistent store; there is no
// coalescing on this path and no fallback for a failed write.
type TranslationsController struct {
	records *models.RecordCache
}

// NewTranslationsController creates the controller around the record
// cache
func NewTranslationsController(
	records *models.RecordCache,
) *TranslationsController {
	return &TranslationsController{records: records}
}

// Handler is a web handler
func (ctl *TranslationsController) Handler(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["post_id"]

	switch r.Method {
	case "OPTIONS":
		respondWithOptions(w, []string{"OPTIONS", "HEAD", "GET", "PUT"})
		return
	case "HEAD", "GET":
		ctl.read(w, postID)
	case "PUT":
		ctl.update(w, r, postID)
	default:
		respondWithErrorMessage(w, "method not allowed",
			http.StatusMethodNotAllowed)
		return
	}
}

func (ctl *TranslationsController) read(w http.ResponseWriter, postID string) {
	entities, err := ctl.records.GetTranslatedEntities(postID)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithData(w, models.TranslatedEntityRecord{
		PostID:   postID,
		Entities: entities,
	})
}

func (ctl *TranslationsController) update(
	w http.ResponseWriter,
	r *http.Request,
	postID string,
) {
	var body struct {
		Entities []models.TranslatedEntity `json:"entities"`
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		respondWithErrorMessage(w,
			"the body must be a JSON object with an entities array",
			http.StatusBadRequest)
		return
	}

	if len(body.Entities) == 0 {
		respondWithErrorMessage(w, "entities must not be empty",
			http.StatusBadRequest)
		return
	}

	if err := ctl.records.PutTranslatedEntities(postID, body.Entities); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithData(w, map[string]string{"status": "stored"})
}
