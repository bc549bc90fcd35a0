package di

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Record is an object saved in a Store.
type Record struct {
	ID       ComponentID
	Instance interface{}
	Close    func(obj interface{}) error

	order int
}

// Store contains the objects built for one Key, or the singletons of a Container.
// There is at most one Record per ComponentID.
// It is safe for concurrent use.
type Store struct {
	m       sync.RWMutex
	records map[ComponentID]Record
	created int

	// building ensures that only one goroutine builds a given object.
	// The other goroutines wait and receive the same result.
	building singleflight.Group
}

func newStore() *Store {
	return &Store{
		records: map[ComponentID]Record{},
	}
}

// Get returns the Record for the given ComponentID if it exists.
// It never builds anything.
func (s *Store) Get(id ComponentID) (Record, bool) {
	s.m.RLock()
	defer s.m.RUnlock()

	r, ok := s.records[id]
	return r, ok
}

// Has returns true if there is a Record for the given ComponentID.
func (s *Store) Has(id ComponentID) bool {
	_, ok := s.Get(id)
	return ok
}

// Len returns the number of objects in the Store.
func (s *Store) Len() int {
	s.m.RLock()
	defer s.m.RUnlock()
	return len(s.records)
}

// Records returns the Records of the Store in their creation order.
func (s *Store) Records() []Record {
	s.m.RLock()
	defer s.m.RUnlock()
	return sortRecords(s.records)
}

func sortRecords(m map[ComponentID]Record) []Record {
	records := make([]Record, 0, len(m))
	for _, r := range m {
		records = append(records, r)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].order < records[j].order
	})

	return records
}

// IDs returns the ComponentIDs of the Store in their creation order.
func (s *Store) IDs() []ComponentID {
	records := s.Records()
	ids := make([]ComponentID, len(records))

	for i, r := range records {
		ids[i] = r.ID
	}

	return ids
}

// GetOrCreate returns the object saved for the given ComponentID.
// If there is none, build is called and its result is saved.
//
// Concurrent calls for the same ComponentID only call build once,
// and all of them receive its result. If build fails, nothing is saved
// and every waiting caller receives the error. A later call tries again.
// Calls for different ComponentIDs do not wait for each other.
func (s *Store) GetOrCreate(id ComponentID, build func() (interface{}, error)) (interface{}, error) {
	return s.getOrCreate(id, build, nil)
}

func (s *Store) getOrCreate(
	id ComponentID,
	build func() (interface{}, error),
	closeFunc func(obj interface{}) error,
) (interface{}, error) {
	if r, ok := s.Get(id); ok {
		return r.Instance, nil
	}

	obj, err, _ := s.building.Do(flightKey(id), func() (interface{}, error) {
		// The object may have been saved after the first lookup
		// by a call that was not waiting in the singleflight group anymore.
		if r, ok := s.Get(id); ok {
			return r.Instance, nil
		}

		obj, err := safeBuild(build)
		if err != nil {
			return nil, err
		}

		s.m.Lock()
		s.records[id] = Record{
			ID:       id,
			Instance: obj,
			Close:    closeFunc,
			order:    s.created,
		}
		s.created++
		s.m.Unlock()

		return obj, nil
	})

	return obj, err
}

// flightKey encodes a ComponentID for the singleflight group.
// Unlike ComponentID.String, two different ComponentIDs never share the same key.
func flightKey(id ComponentID) string {
	return strconv.Quote(id.Name) + "|" + strconv.Quote(id.Qualifier) + "|" + strconv.Itoa(id.seq)
}

// safeBuild calls build and converts a panic into an error.
func safeBuild(build func() (interface{}, error)) (obj interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("the build function panicked: %+v", r)
		}
	}()

	return build()
}
