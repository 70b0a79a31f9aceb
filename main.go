package main

import (
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	// Expose profiling info at /debug/pprof/
	_ "net/http/pprof"

	"github.com/golang/glog"
	_ "github.com/lib/pq"

	"github.com/Chilfish/anonTweet-sub001/cache"
	conf "github.com/Chilfish/anonTweet-sub001/config"
	h "github.com/Chilfish/anonTweet-sub001/helpers"
	"github.com/Chilfish/anonTweet-sub001/models"
	"github.com/Chilfish/anonTweet-sub001/server"
)

var configFile = flag.String(
	"config",
	conf.DefaultConfigFilePath,
	"path to the config file",
)

// Fallback when cache_ttl_seconds is not configured
const defaultCacheTTL = 10 * time.Minute

func main() {

	// Go as fast as we can
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Parse flags, also used to init glog
	flag.Parse()

	// 100 megabytes max before rolling the log files
	glog.MaxSize = 1024 * 1024 * 100

	// Catch closing signal and flush logs
	sigc := make(chan os.Signal, 1)
	signal.Notify(
		sigc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	go func() {
		<-sigc
		glog.Flush()
		os.Exit(1)
	}()

	if err := conf.Load(*configFile); err != nil {
		glog.Fatal(err)
	}

	// The database and memcached are optional tiers. A missing or
	// unreachable one is logged and skipped, and the process serves
	// everything it can from the remaining tiers.
	if conf.DatabaseConfigured() {
		if glog.V(2) {
			glog.Info("Initialising DB connection")
		}
		err := h.InitDBConnection(h.DBConfig{
			Host:     conf.ConfigStrings[conf.DatabaseHost],
			Port:     conf.ConfigInt64s[conf.DatabasePort],
			Database: conf.ConfigStrings[conf.DatabaseName],
			Username: conf.ConfigStrings[conf.DatabaseUsername],
			Password: conf.ConfigStrings[conf.DatabasePassword],
		})
		if err != nil {
			glog.Warningf(
				"Persistent store unavailable, continuing without it: %+v",
				err,
			)
		}
	} else {
		glog.Warning("Persistent store not configured, continuing without it")
	}

	if conf.MemcachedConfigured() {
		if glog.V(2) {
			glog.Info("Initialising cache connection")
		}
		cache.InitCache(
			conf.ConfigStrings[conf.MemcachedHost],
			conf.ConfigInt64s[conf.MemcachedPort],
		)
	}

	ttl := defaultCacheTTL
	if seconds, ok := conf.ConfigInt64s[conf.CacheTTLSeconds]; ok && seconds > 0 {
		ttl = time.Duration(seconds) * time.Second
	}

	coalescer := cache.NewCoalescer(ttl)

	origin := models.NewOriginClient(
		conf.ConfigStrings[conf.OriginBaseURL],
		conf.ConfigStrings[conf.OriginBearerToken],
	)

	records := models.NewRecordCache(
		coalescer,
		origin,
		models.NewPersistentStore(),
	)

	if conf.ConfigBool[conf.LinkExpansion] {
		records.SetLinkExpander(models.NewLinkExpander())
	}

	if conf.MediaConfigured() {
		mirror, err := models.NewMediaMirror(
			conf.ConfigStrings[conf.MediaEndpoint],
			conf.ConfigStrings[conf.MediaAccessKey],
			conf.ConfigStrings[conf.MediaSecretKey],
			conf.ConfigStrings[conf.MediaBucket],
			conf.ConfigBool[conf.MediaUseTLS],
		)
		if err != nil {
			glog.Warningf(
				"Media mirror unavailable, continuing without it: %+v",
				err,
			)
		} else {
			records.SetMediaMirror(mirror)
		}
	}

	if glog.V(2) {
		glog.Infof(
			"Starting server on port %d",
			conf.ConfigInt64s[conf.ListenPort],
		)
	}
	server.StartServer(
		conf.ConfigInt64s[conf.ListenPort],
		records,
		coalescer,
	)
}
