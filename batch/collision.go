package batch

import (
	"fmt"
	"path/filepath"
	"strings"
)

// collisionResolver hands out distinct output paths when several jobs map
// to the same stem (a.mp3 and a.m4a, or one file listed twice). Later
// claimants get " - dupN" suffixes. Not safe for concurrent use; jobs are
// built before the pool starts.
type collisionResolver struct {
	claimed  map[string]bool // lower-cased output paths already handed out
	counters map[string]int  // requested output path -> next dup counter
}

func newCollisionResolver() *collisionResolver {
	return &collisionResolver{
		claimed:  make(map[string]bool),
		counters: make(map[string]int),
	}
}

// resolve claims an output path for one job. Every call gets a path no
// earlier call received.
func (cr *collisionResolver) resolve(requested string) string {
	key := strings.ToLower(requested)
	if !cr.claimed[key] {
		cr.claimed[key] = true
		return requested
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	counter := cr.counters[key]
	if counter == 0 {
		counter = 1
	}
	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		ck := strings.ToLower(candidate)
		if !cr.claimed[ck] {
			cr.counters[key] = counter + 1
			cr.claimed[ck] = true
			return candidate
		}
		counter++
	}
}
