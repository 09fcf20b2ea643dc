package utils

import (
	"sync"
	"time"
)

// WorkerPool manages a pool of goroutines with rate limiting.
// Each job is independent; the pool only bounds how many run at once.
type WorkerPool struct {
	maxWorkers  int
	rateLimitMs int
	semaphore   chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	lastRequest time.Time
}

// NewWorkerPool creates a WorkerPool with the given concurrency and rate limit.
func NewWorkerPool(maxWorkers, rateLimitMs int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		maxWorkers:  maxWorkers,
		rateLimitMs: rateLimitMs,
		semaphore:   make(chan struct{}, maxWorkers),
		lastRequest: time.Now(),
	}
}

// Submit enqueues a job for execution in the pool.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.semaphore <- struct{}{}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()

		wp.enforceRateLimit()
		job()
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) enforceRateLimit() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	minInterval := time.Duration(wp.rateLimitMs) * time.Millisecond
	elapsed := time.Since(wp.lastRequest)
	if elapsed < minInterval {
		time.Sleep(minInterval - elapsed)
	}
	wp.lastRequest = time.Now()
}

// TextSet is a thread-safe set used to drop exact-duplicate texts.
type TextSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewTextSet creates an empty TextSet.
func NewTextSet() *TextSet {
	return &TextSet{seen: make(map[string]struct{})}
}

// Add returns true if the text was newly added, false if already present.
func (s *TextSet) Add(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[text]; exists {
		return false
	}
	s.seen[text] = struct{}{}
	return true
}

// Contains returns true if the text has already been seen.
func (s *TextSet) Contains(text string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[text]
	return exists
}

// Size returns the number of unique texts tracked.
func (s *TextSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
