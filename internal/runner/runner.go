// Package runner dispatches generated quizzes to a model provider with a
// bounded worker pool. Each quiz is an independent request: transient
// failures retry with exponential backoff, permanent failures are recorded
// on the row without aborting the batch.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/stellarlinkco/lineage-bench/internal/llm"
	"github.com/stellarlinkco/lineage-bench/internal/record"
)

const (
	defaultWorkers    = 8
	defaultMaxRetries = 5
	baseDelay         = time.Second
	jitterFraction    = 0.25

	requestTemperature = 0.01
	requestSeed        = 42
	requestMaxTokens   = 16384
)

type Config struct {
	Workers    int
	MaxRetries int
	Timeout    time.Duration // per-request; 0 disables
	System     string        // optional system prompt
	Effort     string        // optional reasoning effort
	ModelName  string        // recorded in result rows
	ErrLog     io.Writer     // per-item failure diagnostics; nil discards
}

type Runner struct {
	provider llm.Provider
	cfg      Config

	sem chan struct{}

	mu    sync.Mutex
	sleep func(ctx context.Context, d time.Duration) error
	rng   *rand.Rand
}

func NewRunner(provider llm.Provider, cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}

	return &Runner{
		provider: provider,
		cfg:      cfg,
		sem:      make(chan struct{}, cfg.Workers),
		sleep:    sleepCtx,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run sends every quiz row to the provider and returns one result row per
// input row, in input order. A row whose request permanently failed keeps
// its quiz fields and carries an empty response.
func (r *Runner) Run(ctx context.Context, rows []record.QuizRow) ([]record.ResultRow, error) {
	if r == nil {
		return nil, errors.New("runner: nil runner")
	}
	if ctx == nil {
		return nil, errors.New("runner: nil context")
	}
	if r.provider == nil {
		return nil, errors.New("runner: nil provider")
	}

	out := make([]record.ResultRow, len(rows))

	var wg sync.WaitGroup
	for i := range rows {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(rows); j++ {
				out[j] = r.resultRow(rows[j], "")
			}
			wg.Wait()
			return out, err
		}

		idx := i
		row := rows[i]

		wg.Add(1)
		go func() {
			defer wg.Done()
			out[idx] = r.query(ctx, row)
		}()
	}
	wg.Wait()

	return out, ctx.Err()
}

func (r *Runner) query(ctx context.Context, row record.QuizRow) record.ResultRow {
	select {
	case r.sem <- struct{}{}:
		defer func() { <-r.sem }()
	case <-ctx.Done():
		return r.resultRow(row, "")
	}

	seed := requestSeed
	req := &llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: row.Text}},
		System:      r.cfg.System,
		MaxTokens:   requestMaxTokens,
		Temperature: requestTemperature,
		Seed:        &seed,
		Effort:      r.cfg.Effort,
	}

	for attempt := 0; ; attempt++ {
		resp, err := r.complete(ctx, req)
		if err == nil {
			return r.resultRow(row, resp.Text)
		}

		if !llm.Retryable(err) || attempt >= r.cfg.MaxRetries || ctx.Err() != nil {
			r.logf("runner: giving up on %s quiz after %d attempts: %v", row.Category, attempt+1, err)
			return r.resultRow(row, "")
		}

		delay := r.backoff(attempt)
		r.logf("runner: transient error (%v), retrying in %s", err, delay.Round(10*time.Millisecond))
		if err := r.sleep(ctx, delay); err != nil {
			return r.resultRow(row, "")
		}
	}
}

func (r *Runner) complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	return r.provider.Complete(ctx, req)
}

// backoff returns baseDelay * 2^attempt with +/-25% jitter.
func (r *Runner) backoff(attempt int) time.Duration {
	d := baseDelay << uint(attempt)

	r.mu.Lock()
	f := 1 + jitterFraction*(2*r.rng.Float64()-1)
	r.mu.Unlock()

	return time.Duration(float64(d) * f)
}

func (r *Runner) resultRow(row record.QuizRow, response string) record.ResultRow {
	model := strings.TrimSpace(r.cfg.ModelName)
	if model == "" && r.provider != nil {
		model = r.provider.Name()
	}
	providerName := ""
	if r.provider != nil {
		providerName = r.provider.Name()
	}

	return record.ResultRow{
		QuizRow:  row,
		Model:    model,
		Provider: providerName,
		Effort:   r.cfg.Effort,
		System:   r.cfg.System,
		Response: response,
	}
}

func (r *Runner) logf(format string, args ...any) {
	if r.cfg.ErrLog == nil {
		return
	}
	fmt.Fprintf(r.cfg.ErrLog, format+"\n", args...)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
