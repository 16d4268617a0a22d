// Package state holds the client-side application state shared by the
// gateway and the CLI: a reducer-driven store with a versioned contract.
package state

import (
	"fmt"
	"sync"
)

// ContractVersion is bumped whenever an action type or its payload changes
// shape. Reducers report the version they were written against.
const ContractVersion = 1

// Action is a state transition request.
type Action struct {
	Type    string
	Payload any
}

// Reducer computes the next state. It must not mutate prev.
type Reducer[S any] interface {
	Version() int
	Reduce(prev S, action Action) S
}

// ReducerFunc adapts a function to Reducer at the current contract version.
type ReducerFunc[S any] func(prev S, action Action) S

func (f ReducerFunc[S]) Version() int { return ContractVersion }

func (f ReducerFunc[S]) Reduce(prev S, action Action) S { return f(prev, action) }

// Store is safe for concurrent use. Subscribers run synchronously after the
// state is updated, outside the lock.
type Store[S any] struct {
	reducer Reducer[S]

	mu      sync.RWMutex
	state   S
	nextID  int
	watches map[int]func(S)
}

// ErrContractVersion is returned when a reducer targets another contract.
type ErrContractVersion struct {
	Got, Want int
}

func (e ErrContractVersion) Error() string {
	return fmt.Sprintf("state: reducer targets contract v%d, store expects v%d", e.Got, e.Want)
}

// NewStore builds a store seeded with initial.
func NewStore[S any](reducer Reducer[S], initial S) (*Store[S], error) {
	if v := reducer.Version(); v != ContractVersion {
		return nil, ErrContractVersion{Got: v, Want: ContractVersion}
	}
	return &Store[S]{reducer: reducer, state: initial, watches: map[int]func(S){}}, nil
}

// Dispatch applies action and notifies subscribers with the new state.
func (s *Store[S]) Dispatch(action Action) S {
	s.mu.Lock()
	s.state = s.reducer.Reduce(s.state, action)
	next := s.state
	fns := make([]func(S), 0, len(s.watches))
	for _, fn := range s.watches {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
	return next
}

// State returns the current state.
func (s *Store[S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store[S]) Subscribe(fn func(S)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watches[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watches, id)
			s.mu.Unlock()
		})
	}
}
