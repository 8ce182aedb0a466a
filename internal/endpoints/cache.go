// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package endpoints

import "sync"

var (
	// Global singleton cache for the resolved endpoint set.
	// Lives only in process memory and is cleared when the CLI exits.
	globalCache     *Resolved
	globalCacheLock sync.RWMutex
)

// GetCached returns the cached endpoint set from RAM, or nil if not cached.
func GetCached() *Resolved {
	globalCacheLock.RLock()
	defer globalCacheLock.RUnlock()
	return globalCache
}

// SetCached stores the endpoint set in RAM.
func SetCached(r *Resolved) {
	globalCacheLock.Lock()
	defer globalCacheLock.Unlock()
	globalCache = r
}

// ClearCache removes the endpoint set from RAM (primarily for testing).
func ClearCache() {
	globalCacheLock.Lock()
	defer globalCacheLock.Unlock()
	globalCache = nil
}
