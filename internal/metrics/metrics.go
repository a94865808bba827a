// Package metrics turns raw model responses into accuracy figures: it
// extracts the selected answer from each response, compares it with the
// recorded ground truth and aggregates per problem size, category and model.
package metrics

import (
	"regexp"
	"sort"

	"github.com/stellarlinkco/lineage-bench/internal/quiz"
	"github.com/stellarlinkco/lineage-bench/internal/record"
)

var answerRe = regexp.MustCompile(`<ANSWER>([0-9])</ANSWER>`)

// relaxedAnswerRes are fallback patterns for models that almost follow the
// answer-tag instruction. Tried in order after the primary pattern fails.
var relaxedAnswerRes = []*regexp.Regexp{
	regexp.MustCompile(`boxed\{([0-9])\}`),
	regexp.MustCompile(`</ANSWER>([0-9])</ANSWER>`),
	regexp.MustCompile(`ANSWER: ?([0-9])`),
	regexp.MustCompile(`\*\*ANSWER\*\*:? ?([0-9])`),
	regexp.MustCompile(`\*\*ANSWER>\*\*([0-9])</ANSWER>`),
}

// ExtractAnswer pulls the selected answer number out of a model response.
// Returns 0 when no answer can be found; 0 is the "missing" marker, never a
// valid option index.
func ExtractAnswer(response string, relaxed bool) int {
	if m := answerRe.FindStringSubmatch(response); m != nil {
		return int(m[1][0] - '0')
	}
	if !relaxed {
		return 0
	}
	for _, re := range relaxedAnswerRes {
		if m := re.FindStringSubmatch(response); m != nil {
			return int(m[1][0] - '0')
		}
	}
	return 0
}

// Cell is the aggregate for one (problem size, category, model) group.
type Cell struct {
	Size      int
	Category  quiz.Category
	Model     string
	Correct   int
	Incorrect int
	Missing   int
}

func (c Cell) Total() int {
	return c.Correct + c.Incorrect + c.Missing
}

func (c Cell) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.Correct) / float64(total)
}

type cellKey struct {
	size     int
	category quiz.Category
	model    string
}

// Aggregate scores every result row and groups the outcomes. Rows without a
// parseable answer count as missing rather than failing the aggregation.
func Aggregate(rows []record.ResultRow, relaxed bool) []Cell {
	cells := make(map[cellKey]*Cell)

	for _, row := range rows {
		key := cellKey{size: row.Length, category: row.Category, model: row.Model}
		c, ok := cells[key]
		if !ok {
			c = &Cell{Size: row.Length, Category: row.Category, Model: row.Model}
			cells[key] = c
		}

		switch got := ExtractAnswer(row.Response, relaxed); {
		case got == 0:
			c.Missing++
		case got == row.Answer:
			c.Correct++
		default:
			c.Incorrect++
		}
	}

	out := make([]Cell, 0, len(cells))
	for _, c := range cells {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Model != out[j].Model {
			return out[i].Model < out[j].Model
		}
		if out[i].Size != out[j].Size {
			return out[i].Size < out[j].Size
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Summary is one model's row in the condensed report: the overall lineage
// score plus the per-size scores it averages.
type Summary struct {
	Rank   int
	Model  string
	Score  float64         // mean of the per-size scores
	BySize map[int]float64 // problem size -> mean accuracy across categories
}

// Sizes returns the sorted set of problem sizes present in the cells.
func Sizes(cells []Cell) []int {
	seen := make(map[int]bool)
	for _, c := range cells {
		seen[c.Size] = true
	}
	out := make([]int, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// Summarize condenses aggregated cells into one ranked row per model. The
// per-size score is the mean accuracy across the categories present for
// that size; the lineage score is the mean across all sizes present in the
// data. A model missing a size entirely scores 0 for it.
func Summarize(cells []Cell) []Summary {
	sizes := Sizes(cells)

	type acc struct {
		sum float64
		n   int
	}
	perModelSize := make(map[string]map[int]*acc)

	for _, c := range cells {
		bySize, ok := perModelSize[c.Model]
		if !ok {
			bySize = make(map[int]*acc)
			perModelSize[c.Model] = bySize
		}
		a, ok := bySize[c.Size]
		if !ok {
			a = &acc{}
			bySize[c.Size] = a
		}
		a.sum += c.Accuracy()
		a.n++
	}

	out := make([]Summary, 0, len(perModelSize))
	for model, bySize := range perModelSize {
		s := Summary{Model: model, BySize: make(map[int]float64, len(sizes))}
		for _, size := range sizes {
			if a, ok := bySize[size]; ok && a.n > 0 {
				s.BySize[size] = a.sum / float64(a.n)
			} else {
				s.BySize[size] = 0
			}
			s.Score += s.BySize[size]
		}
		if len(sizes) > 0 {
			s.Score /= float64(len(sizes))
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Model < out[j].Model
	})
	for i := range out {
		out[i].Rank = i + 1
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Rank = out[i-1].Rank
		}
	}
	return out
}
