// Package prober measures the intrinsic dimensions of remote images.
// Srcset variants often omit the height descriptor, so picking the
// largest-area variant needs a cheap HEAD-of-image probe per candidate.
package prober

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"sync"
	"time"

	"igresolve/pkg/logger"
)

// ProbeJob represents a single dimension probe task
type ProbeJob struct {
	URL string
	// DeclaredWidth is the width descriptor from the srcset entry,
	// kept so results can be matched back to their candidates.
	DeclaredWidth int
}

// ProbeResult represents the outcome of a probe job
type ProbeResult struct {
	Job      ProbeJob
	Width    int
	Height   int
	Success  bool
	Error    error
	Duration time.Duration
}

// Area returns the pixel area of the probed image, 0 on failure
func (r ProbeResult) Area() int {
	if !r.Success {
		return 0
	}
	return r.Width * r.Height
}

// Fetcher fetches image bytes for probing
type Fetcher interface {
	Get(url string) (*http.Response, error)
}

// Pool runs dimension probes concurrently
type Pool struct {
	numWorkers  int
	jobQueue    chan ProbeJob
	resultQueue chan ProbeResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	fetcher     Fetcher
	logger      logger.Logger
}

// NewPool creates a probe pool backed by the given fetcher. ProbeAll
// sets up the channels, so a fresh pool carries no live state.
func NewPool(numWorkers int, fetcher Fetcher, log logger.Logger) *Pool {
	if log == nil {
		log = logger.GetLogger()
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	return &Pool{
		numWorkers: numWorkers,
		fetcher:    fetcher,
		logger:     log,
	}
}

// submit adds a probe job to the queue
func (p *Pool) submit(job ProbeJob) error {
	select {
	case p.jobQueue <- job:
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("probe pool is shutting down")
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobQueue {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		result := p.probe(job, id)

		select {
		case p.resultQueue <- result:
		case <-p.ctx.Done():
			return
		}
	}
}

// probe downloads just enough of the image to decode its header
func (p *Pool) probe(job ProbeJob, workerID int) ProbeResult {
	start := time.Now()
	result := ProbeResult{Job: job}

	resp, err := p.fetcher.Get(job.URL)
	if err != nil {
		result.Error = fmt.Errorf("probe fetch failed: %w", err)
		result.Duration = time.Since(start)

		p.logger.DebugWithFields("probe failed", map[string]interface{}{
			"worker_id": workerID,
			"url":       job.URL,
			"error":     err.Error(),
		})
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Errorf("probe fetch returned status %d", resp.StatusCode)
		result.Duration = time.Since(start)
		return result
	}

	cfg, _, err := image.DecodeConfig(resp.Body)
	if err != nil {
		result.Error = fmt.Errorf("probe decode failed: %w", err)
		result.Duration = time.Since(start)

		p.logger.DebugWithFields("probe decode failed", map[string]interface{}{
			"worker_id": workerID,
			"url":       job.URL,
			"error":     err.Error(),
		})
		return result
	}

	result.Width = cfg.Width
	result.Height = cfg.Height
	result.Success = true
	result.Duration = time.Since(start)

	return result
}

// ProbeAll runs every job through the pool and collects all results.
// Failed probes come back with Success false rather than being dropped.
func (p *Pool) ProbeAll(jobs []ProbeJob) []ProbeResult {
	// Fresh channels and context per call, so the same pool can serve
	// every scan of a long-lived session.
	p.jobQueue = make(chan ProbeJob, p.numWorkers*2)
	p.resultQueue = make(chan ProbeResult, p.numWorkers)
	p.ctx, p.cancel = context.WithCancel(context.Background())

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go func() {
		for _, job := range jobs {
			if err := p.submit(job); err != nil {
				break
			}
		}
		close(p.jobQueue)
	}()

	results := make([]ProbeResult, 0, len(jobs))
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(p.resultQueue)
		close(done)
	}()

	for result := range p.resultQueue {
		results = append(results, result)
	}
	<-done
	p.cancel()

	return results
}
