package worker

import (
	"context"
	"sort"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type envelope struct {
	seq int
	job Job
}

type outcome struct {
	seq    int
	result Result
}

// Pool manages a pool of workers that execute jobs concurrently.
// Wait returns results in submission order regardless of completion order.
type Pool struct {
	workers    int
	next       int
	jobQueue   chan envelope
	results    chan outcome
	collected  []outcome
	collectors sync.WaitGroup
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a new worker pool with the specified number of workers.
// Canceling ctx stops workers after their current job.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan envelope, workers*2), // Buffered to prevent blocking
		results:    make(chan outcome, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the workers and the result collector
func (p *Pool) Start() {
	p.collectors.Add(1)
	go p.collect()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case env, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.results <- outcome{seq: env.seq, result: env.job.Execute(p.ctx)}
		}
	}
}

// collect drains results so Submit never waits on an unread result
func (p *Pool) collect() {
	defer p.collectors.Done()
	for o := range p.results {
		p.collected = append(p.collected, o)
	}
}

// Submit submits a job to the pool. Calls must come from one goroutine.
func (p *Pool) Submit(job Job) {
	env := envelope{seq: p.next, job: job}
	p.next++

	select {
	case <-p.ctx.Done():
	case p.jobQueue <- env:
	}
}

// Wait closes the queue, waits for all jobs and returns their results in
// submission order. Jobs dropped by cancellation have no result.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	p.collectors.Wait()

	sort.Slice(p.collected, func(i, j int) bool { return p.collected[i].seq < p.collected[j].seq })

	results := make([]Result, len(p.collected))
	for i, o := range p.collected {
		results[i] = o.result
	}
	return results
}

// Shutdown shuts down the worker pool immediately
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	p.collectors.Wait()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

// Run executes jobs on a fresh pool and returns results in job order
func Run(ctx context.Context, workers int, jobs []Job) []Result {
	if len(jobs) == 0 {
		return []Result{}
	}

	pool := NewPool(ctx, workers)
	pool.Start()
	for _, job := range jobs {
		pool.Submit(job)
	}
	return pool.Wait()
}
