package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// DefaultTemplate is the stock prompt template. Custom templates must carry
// the same three placeholders.
const DefaultTemplate = "Given the following lineage relationships:\n{quiz_relations}\n{quiz_question}\nSelect the correct answer:\n{quiz_answers}\nEnclose the selected answer number in the <ANSWER> tag, for example: <ANSWER>1</ANSWER>."

const (
	placeholderRelations = "{quiz_relations}"
	placeholderQuestion  = "{quiz_question}"
	placeholderAnswers   = "{quiz_answers}"
)

const noneOptionText = "None of the above is correct."

// answerOption pairs a category with its answer sentence template. The order
// here is the presentation order when shuffling is disabled.
type answerOption struct {
	category Category
	template string
}

var answerOptions = []answerOption{
	{Ancestor, "%s is %s's ancestor."},
	{Descendant, "%s is %s's descendant."},
	{CommonAncestor, "%s and %s share a common ancestor."},
	{CommonDescendant, "%s and %s share a common descendant."},
	{None, noneOptionText},
}

// Quiz is one fully rendered multiple-choice item. It is immutable once
// returned: downstream components only read it.
type Quiz struct {
	Length   int
	Category Category
	Subject  string
	Object   string
	Answer   int // 1-based index of the correct option
	Text     string
}

// ValidateTemplate checks that a prompt template carries all three required
// placeholders. Renderers call it before consuming any randomness so a bad
// template never produces a malformed prompt.
func ValidateTemplate(tmpl string) error {
	for _, p := range []string{placeholderRelations, placeholderQuestion, placeholderAnswers} {
		if !strings.Contains(tmpl, p) {
			return fmt.Errorf("quiz: prompt template missing placeholder %s", p)
		}
	}
	return nil
}

// Render serializes a verified graph into the final quiz text and correct
// answer index.
//
// Each edge is phrased either as an ancestor statement or as the equivalent
// descendant statement, chosen per edge at random so the relation list never
// reads as a copyable chain. With shuffle set, the relation statements and,
// independently, all five answer options are permuted; neither permutation
// changes the underlying graph or the correct category. Randomness is
// consumed in a fixed order: relation-order shuffle, per-edge phrasing,
// option shuffle.
func Render(g *Graph, category Category, tmpl string, shuffle bool, rng *rand.Rand) (*Quiz, error) {
	if g == nil {
		return nil, errors.New("quiz: nil graph")
	}
	if rng == nil {
		return nil, errors.New("quiz: nil random source")
	}
	if !category.valid() || category == None {
		return nil, fmt.Errorf("quiz: cannot render category %q", category)
	}
	if err := ValidateTemplate(tmpl); err != nil {
		return nil, err
	}

	edges := g.Edges
	if shuffle {
		edges = make([]Edge, len(g.Edges))
		copy(edges, g.Edges)
		rng.Shuffle(len(edges), func(i, j int) {
			edges[i], edges[j] = edges[j], edges[i]
		})
	}

	var relations strings.Builder
	for i, e := range edges {
		if i > 0 {
			relations.WriteByte('\n')
		}
		anc, desc := g.Names[e.Ancestor], g.Names[e.Descendant]
		if rng.Intn(2) == 0 {
			fmt.Fprintf(&relations, "* %s is %s's ancestor.", anc, desc)
		} else {
			fmt.Fprintf(&relations, "* %s is %s's descendant.", desc, anc)
		}
	}

	subject := g.Names[g.Subject]
	object := g.Names[g.Object]
	question := fmt.Sprintf("Determine the lineage relationship between %s and %s.", subject, object)

	options := make([]answerOption, len(answerOptions))
	copy(options, answerOptions)
	if shuffle {
		rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
	}

	var answers strings.Builder
	correct := 0
	for i, opt := range options {
		if i > 0 {
			answers.WriteByte('\n')
		}
		text := opt.template
		if opt.category != None {
			text = fmt.Sprintf(opt.template, subject, object)
		}
		fmt.Fprintf(&answers, "%d. %s", i+1, text)
		if opt.category == category {
			correct = i + 1
		}
	}
	if correct == 0 {
		return nil, fmt.Errorf("quiz: no answer option matches category %s", category)
	}

	text := strings.ReplaceAll(tmpl, placeholderRelations, relations.String())
	text = strings.ReplaceAll(text, placeholderQuestion, question)
	text = strings.ReplaceAll(text, placeholderAnswers, answers.String())

	return &Quiz{
		Length:   len(g.Names),
		Category: category,
		Subject:  subject,
		Object:   object,
		Answer:   correct,
		Text:     text,
	}, nil
}

// Generate builds, verifies and renders a single quiz from the supplied
// random source.
func Generate(length int, category Category, tmpl string, shuffle bool, rng *rand.Rand) (*Quiz, error) {
	if err := ValidateTemplate(tmpl); err != nil {
		return nil, err
	}
	g, err := Build(length, category, rng)
	if err != nil {
		return nil, err
	}
	return Render(g, category, tmpl, shuffle, rng)
}
