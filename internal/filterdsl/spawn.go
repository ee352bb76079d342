package filterdsl

import "golang.org/x/time/rate"

// SpawnLimiter throttles `$[...]` and pipe subprocess spawns across the
// whole process, the same way the teacher's API client throttles
// outbound HTTP calls: a sustained rate with burst headroom for a
// query that fans out over many files at once.
var SpawnLimiter = rate.NewLimiter(rate.Limit(50), 10)
