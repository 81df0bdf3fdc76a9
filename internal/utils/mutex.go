package utils

import "sync"

var mu sync.Mutex

// ExecuteWithMutex serializes access to code that touches GDAL datasets,
// which are not safe for concurrent use from multiple goroutines.
func ExecuteWithMutex(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	fn()
}
