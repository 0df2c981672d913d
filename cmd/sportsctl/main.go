// Command sportsctl runs the sports history toolkit from the command line:
// intervals.icu cache, object storage, Strava and Polar analysis, publishing.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
