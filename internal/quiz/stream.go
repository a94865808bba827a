package quiz

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
)

// Options configures a quiz stream.
type Options struct {
	Length     int        // people per quiz; >= MinLength
	NumQuizzes int        // quizzes generated per category; >= 1
	Types      []Category // nil means all four substantive categories
	Shuffle    bool
	Template   string // empty means DefaultTemplate
	Seed       int64
}

// Stream lazily produces NumQuizzes quizzes for each requested category from
// a single seeded random source. Two streams with equal options produce
// byte-identical quizzes in the same order; restart by constructing a new
// stream with the same seed.
type Stream struct {
	opts  Options
	types []Category
	rng   *rand.Rand

	typeIdx int
	emitted int
}

// NewStream validates the options and returns a stream positioned before the
// first quiz. Validation happens here, before any randomness is consumed.
func NewStream(opts Options) (*Stream, error) {
	if opts.Length < MinLength {
		return nil, fmt.Errorf("quiz: length must be >= %d (got %d)", MinLength, opts.Length)
	}
	if opts.Length > NamePoolSize {
		return nil, fmt.Errorf("quiz: length %d exceeds name pool size %d", opts.Length, NamePoolSize)
	}
	if opts.NumQuizzes < 1 {
		return nil, fmt.Errorf("quiz: num quizzes must be >= 1 (got %d)", opts.NumQuizzes)
	}

	if opts.Template == "" {
		opts.Template = DefaultTemplate
	}
	if err := ValidateTemplate(opts.Template); err != nil {
		return nil, err
	}

	types := opts.Types
	if len(types) == 0 {
		types = Categories()
	}
	for _, t := range types {
		if !t.valid() || t == None {
			return nil, fmt.Errorf("quiz: cannot generate category %q", t)
		}
	}

	return &Stream{
		opts:  opts,
		types: types,
		rng:   rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

// Next returns the next quiz, or io.EOF once the stream is exhausted. A
// construction failure is returned as-is and ends the stream; it is a logic
// defect, never downgraded to a wrong-but-plausible quiz.
func (s *Stream) Next() (*Quiz, error) {
	if s == nil {
		return nil, errors.New("quiz: nil stream")
	}
	if s.typeIdx >= len(s.types) {
		return nil, io.EOF
	}

	q, err := Generate(s.opts.Length, s.types[s.typeIdx], s.opts.Template, s.opts.Shuffle, s.rng)
	if err != nil {
		s.typeIdx = len(s.types)
		return nil, err
	}

	s.emitted++
	if s.emitted >= s.opts.NumQuizzes {
		s.emitted = 0
		s.typeIdx++
	}
	return q, nil
}

// Remaining reports how many quizzes the stream will still produce.
func (s *Stream) Remaining() int {
	if s == nil || s.typeIdx >= len(s.types) {
		return 0
	}
	left := (len(s.types)-s.typeIdx)*s.opts.NumQuizzes - s.emitted
	if left < 0 {
		return 0
	}
	return left
}
