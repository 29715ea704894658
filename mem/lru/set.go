// Package lru provides a fixed number of ways that are replaced in
// least-recently-used order. It backs both the paging device's frame cache
// and the board's translation cache.
package lru

import "sort"

// A Set holds a certain number of ways, each of which can be tagged with a
// key.
type Set interface {
	// Lookup returns the way that currently holds the key.
	Lookup(key uint64) (wayID int, found bool)

	// Update tags a way with a key. A key lives in at most one way, so any
	// other way holding the same key is invalidated.
	Update(wayID int, key uint64)

	// Invalidate drops the key held by a way.
	Invalidate(wayID int)

	// Evict returns the way that should be replaced next. Ways without a key
	// are returned before any valid way.
	Evict() (wayID int, ok bool)

	// Visit marks the way as the most recently used.
	Visit(wayID int)

	// Reset invalidates all the ways.
	Reset()

	// NumWays returns the number of ways in the set.
	NumWays() int
}

// NewSet creates a new set.
func NewSet(numWays int) Set {
	s := &setImpl{}
	s.blocks = make([]*block, numWays)
	s.visitList = make([]*block, 0, numWays)
	s.keyWayIDMap = make(map[uint64]int)

	for i := range s.blocks {
		b := &block{}
		s.blocks[i] = b
		b.wayID = i
		s.Visit(i)
	}

	return s
}

type block struct {
	key       uint64
	valid     bool
	wayID     int
	lastVisit uint64
}

type setImpl struct {
	blocks      []*block
	keyWayIDMap map[uint64]int
	visitList   []*block
	visitCount  uint64
}

func (s *setImpl) NumWays() int {
	return len(s.blocks)
}

func (s *setImpl) Lookup(key uint64) (wayID int, found bool) {
	wayID, found = s.keyWayIDMap[key]
	return wayID, found
}

func (s *setImpl) Update(wayID int, key uint64) {
	if oldWayID, found := s.keyWayIDMap[key]; found && oldWayID != wayID {
		s.Invalidate(oldWayID)
	}

	block := s.blocks[wayID]
	if block.valid {
		delete(s.keyWayIDMap, block.key)
	}

	block.key = key
	block.valid = true
	s.keyWayIDMap[key] = wayID
}

func (s *setImpl) Invalidate(wayID int) {
	block := s.blocks[wayID]
	if !block.valid {
		return
	}

	delete(s.keyWayIDMap, block.key)
	block.valid = false
	block.key = 0
}

func (s *setImpl) Evict() (wayID int, ok bool) {
	if len(s.visitList) == 0 {
		return 0, false
	}

	for _, b := range s.visitList {
		if !b.valid {
			return b.wayID, true
		}
	}

	return s.visitList[0].wayID, true
}

func (s *setImpl) Visit(wayID int) {
	block := s.blocks[wayID]

	for i, b := range s.visitList {
		if b.wayID == wayID {
			s.visitList = append(s.visitList[:i], s.visitList[i+1:]...)
			break
		}
	}

	s.visitCount++
	block.lastVisit = s.visitCount

	index := sort.Search(len(s.visitList), func(i int) bool {
		return s.visitList[i].lastVisit > block.lastVisit
	})

	s.visitList = append(s.visitList, nil)
	copy(s.visitList[index+1:], s.visitList[index:])
	s.visitList[index] = block
}

func (s *setImpl) Reset() {
	for i := range s.blocks {
		s.Invalidate(i)
	}
}
