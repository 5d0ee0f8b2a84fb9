package service

import (
	"sync/atomic"
	"time"
)

// State — process health. Not used by the evaluation itself.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastFetchUnix atomic.Int64 // unix seconds of the last successful candle fetch
	fetchErrors   atomic.Int64
	lastError     atomic.Value // string
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	s.lastError.Store("")
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) TouchFetch(t time.Time) { s.lastFetchUnix.Store(t.Unix()) }
func (s *State) LastFetch() time.Time {
	u := s.lastFetchUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) FetchFailed(err error) {
	s.fetchErrors.Add(1)
	if err != nil {
		s.lastError.Store(err.Error())
	}
}

func (s *State) FetchErrors() int64 { return s.fetchErrors.Load() }
func (s *State) LastError() string  { return s.lastError.Load().(string) }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
