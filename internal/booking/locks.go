package booking

import (
	"hash/fnv"
	"strconv"
	"sync"
)

const lockStripes = 64

// lockTable serializes submissions per (space, date) with a fixed set of
// striped mutexes. Two keys may share a stripe; that only costs
// unnecessary waiting, never a missed exclusion.
type lockTable struct {
	stripes [lockStripes]sync.Mutex
}

func (lt *lockTable) acquire(spaceID int64, date string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(strconv.FormatInt(spaceID, 10)))
	h.Write([]byte("|"))
	h.Write([]byte(date))
	mu := &lt.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu
}
