// File: utils/constants.go
package utils

import "time"

// SearchCachePrefix is the prefix used for Redis search memoization keys.
const SearchCachePrefix = "search:"

// SearchCacheTTL is the time-to-live for memoized search results.
const SearchCacheTTL = 5 * time.Minute
