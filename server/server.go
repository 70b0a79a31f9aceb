package server

import (
	"fmt"
	"net/http"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/robfig/cron"

	"github.com/Chilfish/anonTweet-sub001/cache"
	"github.com/Chilfish/anonTweet-sub001/controller"
	"github.com/Chilfish/anonTweet-sub001/models"
)

// StartServer owns the http process and cron jobs
func StartServer(
	port int64,
	records *models.RecordCache,
	coalescer *cache.Coalescer,
) {
	// Set up the cron jobs
	c := cron.New()
	for schedule, job := range jobs(coalescer) {
		c.AddFunc(schedule, job)
	}
	c.Start()

	recordsCtl := controller.NewRecordController(records)
	translationsCtl := controller.NewTranslationsController(records)

	r := mux.NewRouter()
	for url, handler := range handlers(recordsCtl, translationsCtl) {
		r.HandleFunc(url, handler)
	}

	http.Handle("/", r)

	// Start the HTTP server
	glog.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), nil))
}
