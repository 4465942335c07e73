package vmufile

import "time"

// nowFunc is indirected so tests can pin the clock; production code never
// reassigns it.
var nowFunc = time.Now
