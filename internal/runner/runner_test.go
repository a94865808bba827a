package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stellarlinkco/lineage-bench/internal/llm"
	"github.com/stellarlinkco/lineage-bench/internal/quiz"
	"github.com/stellarlinkco/lineage-bench/internal/record"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls int
	fn    func(call int, req *llm.Request) (*llm.Response, error)

	inFlight    int32
	maxInFlight int32
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	cur := atomic.AddInt32(&p.inFlight, 1)
	defer atomic.AddInt32(&p.inFlight, -1)
	for {
		max := atomic.LoadInt32(&p.maxInFlight)
		if cur <= max || atomic.CompareAndSwapInt32(&p.maxInFlight, max, cur) {
			break
		}
	}

	p.mu.Lock()
	p.calls++
	call := p.calls
	p.mu.Unlock()

	if p.fn != nil {
		return p.fn(call, req)
	}
	return &llm.Response{Text: fmt.Sprintf("<ANSWER>%d</ANSWER>", call)}, nil
}

func noSleep(r *Runner) {
	r.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
}

func quizRows(n int) []record.QuizRow {
	rows := make([]record.QuizRow, n)
	for i := range rows {
		rows[i] = record.QuizRow{
			Length:   8,
			Category: quiz.Ancestor,
			Answer:   1,
			Text:     fmt.Sprintf("quiz %d", i),
		}
	}
	return rows
}

func TestRun_OneResultPerRowInOrder(t *testing.T) {
	p := &fakeProvider{
		fn: func(_ int, req *llm.Request) (*llm.Response, error) {
			return &llm.Response{Text: "echo: " + req.Messages[0].Content}, nil
		},
	}
	r := NewRunner(p, Config{Workers: 4, ModelName: "test/model"})
	noSleep(r)

	rows := quizRows(20)
	results, err := r.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(rows) {
		t.Fatalf("results: got %d want %d", len(results), len(rows))
	}

	for i, res := range results {
		if res.Text != rows[i].Text {
			t.Fatalf("result %d: quiz text got %q want %q", i, res.Text, rows[i].Text)
		}
		if res.Response != "echo: "+rows[i].Text {
			t.Fatalf("result %d: response got %q", i, res.Response)
		}
		if res.Model != "test/model" || res.Provider != "fake" {
			t.Fatalf("result %d: model=%q provider=%q", i, res.Model, res.Provider)
		}
	}
}

func TestRun_WorkerPoolBound(t *testing.T) {
	block := make(chan struct{})
	p := &fakeProvider{
		fn: func(int, *llm.Request) (*llm.Response, error) {
			<-block
			return &llm.Response{Text: "ok"}, nil
		},
	}
	r := NewRunner(p, Config{Workers: 3})
	noSleep(r)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Run(context.Background(), quizRows(10))
	}()

	// Give the pool time to saturate, then release everything.
	time.Sleep(50 * time.Millisecond)
	close(block)
	<-done

	if got := atomic.LoadInt32(&p.maxInFlight); got > 3 {
		t.Fatalf("max in-flight requests: got %d want <= %d", got, 3)
	}
}

func TestRun_RetriesTransientError(t *testing.T) {
	p := &fakeProvider{
		fn: func(call int, _ *llm.Request) (*llm.Response, error) {
			if call < 3 {
				return nil, &openai.APIError{HTTPStatusCode: 429}
			}
			return &llm.Response{Text: "<ANSWER>1</ANSWER>"}, nil
		},
	}
	r := NewRunner(p, Config{Workers: 1, MaxRetries: 5})
	noSleep(r)

	results, err := r.Run(context.Background(), quizRows(1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Response != "<ANSWER>1</ANSWER>" {
		t.Fatalf("response: got %q", results[0].Response)
	}
	if p.calls != 3 {
		t.Fatalf("calls: got %d want %d", p.calls, 3)
	}
}

func TestRun_PermanentFailureKeepsRow(t *testing.T) {
	p := &fakeProvider{
		fn: func(int, *llm.Request) (*llm.Response, error) {
			return nil, &openai.APIError{HTTPStatusCode: 401}
		},
	}

	errLog := &bytes.Buffer{}
	r := NewRunner(p, Config{Workers: 1, MaxRetries: 5, ErrLog: errLog})
	noSleep(r)

	rows := quizRows(1)
	results, err := r.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.calls != 1 {
		t.Fatalf("calls: got %d want %d (no retry on auth errors)", p.calls, 1)
	}
	if results[0].Response != "" {
		t.Fatalf("response: got %q want empty", results[0].Response)
	}
	if results[0].Text != rows[0].Text || results[0].Answer != rows[0].Answer {
		t.Fatalf("quiz fields must survive a failed request: %+v", results[0])
	}
	if !strings.Contains(errLog.String(), "giving up") {
		t.Fatalf("errlog: got %q", errLog.String())
	}
}

func TestRun_RetryBudgetExhausted(t *testing.T) {
	p := &fakeProvider{
		fn: func(int, *llm.Request) (*llm.Response, error) {
			return nil, errors.New("connection reset")
		},
	}
	r := NewRunner(p, Config{Workers: 1, MaxRetries: 2})
	noSleep(r)

	results, err := r.Run(context.Background(), quizRows(1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Response != "" {
		t.Fatalf("response: got %q want empty", results[0].Response)
	}
	if p.calls != 3 {
		t.Fatalf("calls: got %d want %d (initial + 2 retries)", p.calls, 3)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakeProvider{}
	r := NewRunner(p, Config{Workers: 1})
	noSleep(r)

	rows := quizRows(3)
	results, err := r.Run(ctx, rows)
	if err == nil {
		t.Fatalf("expected context error")
	}
	if len(results) != len(rows) {
		t.Fatalf("results: got %d want %d", len(results), len(rows))
	}
	for i, res := range results {
		if res.Response != "" {
			t.Fatalf("result %d: got response %q on canceled run", i, res.Response)
		}
	}
}

func TestRun_RequestShape(t *testing.T) {
	var got *llm.Request
	p := &fakeProvider{
		fn: func(_ int, req *llm.Request) (*llm.Response, error) {
			got = req
			return &llm.Response{Text: "ok"}, nil
		},
	}
	r := NewRunner(p, Config{Workers: 1, System: "be brief", Effort: "high"})
	noSleep(r)

	if _, err := r.Run(context.Background(), quizRows(1)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got == nil {
		t.Fatalf("provider never called")
	}
	if got.System != "be brief" || got.Effort != "high" {
		t.Fatalf("request: system=%q effort=%q", got.System, got.Effort)
	}
	if got.Temperature != requestTemperature {
		t.Fatalf("temperature: got %f want %f", got.Temperature, requestTemperature)
	}
	if got.Seed == nil || *got.Seed != requestSeed {
		t.Fatalf("seed: got %v", got.Seed)
	}
	if got.MaxTokens != requestMaxTokens {
		t.Fatalf("max tokens: got %d want %d", got.MaxTokens, requestMaxTokens)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Fatalf("messages: got %+v", got.Messages)
	}
}

func TestRunner_DefaultsAndNilChecks(t *testing.T) {
	r := NewRunner(&fakeProvider{}, Config{})
	if r.cfg.Workers != defaultWorkers {
		t.Fatalf("workers: got %d want %d", r.cfg.Workers, defaultWorkers)
	}
	if r.cfg.MaxRetries != defaultMaxRetries {
		t.Fatalf("retries: got %d want %d", r.cfg.MaxRetries, defaultMaxRetries)
	}

	var nilRunner *Runner
	if _, err := nilRunner.Run(context.Background(), nil); err == nil {
		t.Fatalf("nil runner: expected error")
	}
	if _, err := NewRunner(nil, Config{}).Run(context.Background(), nil); err == nil {
		t.Fatalf("nil provider: expected error")
	}
}

func TestBackoff_Bounds(t *testing.T) {
	r := NewRunner(&fakeProvider{}, Config{})

	for attempt := 0; attempt < 4; attempt++ {
		base := baseDelay << uint(attempt)
		min := time.Duration(float64(base) * (1 - jitterFraction))
		max := time.Duration(float64(base) * (1 + jitterFraction))
		for i := 0; i < 20; i++ {
			d := r.backoff(attempt)
			if d < min || d > max {
				t.Fatalf("backoff(%d): got %s want within [%s, %s]", attempt, d, min, max)
			}
		}
	}
}

func TestRun_ModelNameDefaultsToProvider(t *testing.T) {
	r := NewRunner(&fakeProvider{}, Config{Workers: 1})
	noSleep(r)

	results, err := r.Run(context.Background(), quizRows(1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Model != "fake" {
		t.Fatalf("model: got %q want %q", results[0].Model, "fake")
	}
}
