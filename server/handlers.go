package server

import (
	"net/http"

	"github.com/Chilfish/anonTweet-sub001/controller"
)

// handlers builds the route table for the API. Identifiers are opaque
// strings supplied by callers; the patterns only keep slashes and
// whitespace out of them.
func handlers(
	records *controller.RecordController,
	translations *controller.TranslationsController,
) map[string]func(http.ResponseWriter, *http.Request) {
	return map[string]func(http.ResponseWriter, *http.Request){
		"/api/v1/posts/{post_id:[0-9A-Za-z_-]+}":              records.PostHandler,
		"/api/v1/posts/{post_id:[0-9A-Za-z_-]+}/replies":      records.RepliesHandler,
		"/api/v1/posts/{post_id:[0-9A-Za-z_-]+}/translations": translations.Handler,

		"/api/v1/users/{username:[0-9A-Za-z_.-]+}":          records.ProfileHandler,
		"/api/v1/users/{username:[0-9A-Za-z_.-]+}/timeline": records.TimelineHandler,

		"/api/v1/version": controller.VersionHandler,
	}
}
