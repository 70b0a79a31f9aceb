package server

import (
	"github.com/golang/glog"

	"github.com/Chilfish/anonTweet-sub001/cache"
)

// Field name   | Mandatory? | Allowed values  | Allowed special characters
// ----------   | ---------- | --------------  | --------------------------
// Seconds      | Yes        | 0-59            | * / , -
// Minutes      | Yes        | 0-59            | * / , -
// Hours        | Yes        | 0-23            | * / , -
// Day of month | Yes        | 1-31            | * / , - ?
// Month        | Yes        | 1-12 or JAN-DEC | * / , -
// Day of week  | Yes        | 0-6 or SUN-SAT  | * / , - ?

// jobs builds the cron table around the process-scoped coalescer.
// Expired entries are otherwise only replaced lazily on the next read
// for their key, so without the sweep the table grows for as long as
// distinct keys keep arriving.
func jobs(coalescer *cache.Coalescer) map[string]func() {
	return map[string]func(){
		//SS MI HH DOM MON DOW
		"  0  *  *   *   *   *": func() { // Every minute
			if swept := coalescer.Sweep(); swept > 0 && glog.V(2) {
				glog.Infof("Swept %d expired cache entries", swept)
			}
		},
		"  0  0  *   *   *   *": func() { // Every hour
			glog.Infof("Cache entries resident: %d", coalescer.Len())
		},
	}
}
