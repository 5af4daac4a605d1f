package service

import "time"

// nowFn is swapped out in tests that pin timestamps.
var nowFn = time.Now
