package store

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/listenupapp/bestsellers/internal/domain"
)

const reportPrefix = "report:"

// keyPool provides reusable byte slices for building database keys.
var keyPool = sync.Pool{
	New: func() any {
		// "report:" + snapshot id + ":" + 16 hex digits fits comfortably.
		return make([]byte, 0, 64)
	},
}

// datasetPrefix builds "report:<datasetID>:". Callers must releaseKey it.
func datasetPrefix(datasetID string) []byte {
	buf, _ := keyPool.Get().([]byte)
	buf = buf[:0]
	buf = append(buf, reportPrefix...)
	buf = append(buf, datasetID...)
	buf = append(buf, ':')
	return buf
}

// reportKey builds "report:<datasetID>:<xxhash of the canonical selection>".
// Callers must releaseKey it.
func reportKey(datasetID string, sel domain.FilterSelection) []byte {
	buf := datasetPrefix(datasetID)
	return strconv.AppendUint(buf, xxhash.Sum64String(sel.Canonical()), 16)
}

// releaseKey returns a key buffer to the pool. The key must not be used afterwards.
func releaseKey(key []byte) {
	if cap(key) <= 256 {
		keyPool.Put(key[:0]) //nolint:staticcheck // SA6002: slice header allocation is acceptable here
	}
}
