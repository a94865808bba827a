package quiz

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NamedEdge is a directed lineage edge recovered from rendered text.
type NamedEdge struct {
	Ancestor   string
	Descendant string
}

// ParsedQuiz is the structure recovered from a rendered quiz by the
// reference parser. It exists so generated quizzes can be re-checked against
// the classifier without access to the original graph.
type ParsedQuiz struct {
	Relations []NamedEdge
	Subject   string
	Object    string
	Options   map[int]Category // 1-based option index to category
}

var (
	relationRe = regexp.MustCompile(`^\* ([A-Za-z]+) is ([A-Za-z]+)'s (ancestor|descendant)\.$`)
	questionRe = regexp.MustCompile(`^Determine the lineage relationship between ([A-Za-z]+) and ([A-Za-z]+)\.$`)
	optionRe   = regexp.MustCompile(`^([0-9]+)\. (.+)$`)

	optionAncestorRe         = regexp.MustCompile(`^([A-Za-z]+) is ([A-Za-z]+)'s ancestor\.$`)
	optionDescendantRe       = regexp.MustCompile(`^([A-Za-z]+) is ([A-Za-z]+)'s descendant\.$`)
	optionCommonAncestorRe   = regexp.MustCompile(`^([A-Za-z]+) and ([A-Za-z]+) share a common ancestor\.$`)
	optionCommonDescendantRe = regexp.MustCompile(`^([A-Za-z]+) and ([A-Za-z]+) share a common descendant\.$`)
)

// ParseQuiz recovers the edge set, query pair and option mapping from a
// rendered quiz. It only understands the fixed statement grammar; template
// boilerplate lines are ignored.
func ParseQuiz(text string) (*ParsedQuiz, error) {
	out := &ParsedQuiz{Options: make(map[int]Category)}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := relationRe.FindStringSubmatch(line); m != nil {
			e := NamedEdge{Ancestor: m[1], Descendant: m[2]}
			if m[3] == "descendant" {
				e = NamedEdge{Ancestor: m[2], Descendant: m[1]}
			}
			out.Relations = append(out.Relations, e)
			continue
		}

		if m := questionRe.FindStringSubmatch(line); m != nil {
			out.Subject, out.Object = m[1], m[2]
			continue
		}

		if m := optionRe.FindStringSubmatch(line); m != nil {
			num, err := strconv.Atoi(m[1])
			if err != nil || num < 1 {
				continue
			}
			if cat, ok := parseOptionText(m[2]); ok {
				out.Options[num] = cat
			}
			continue
		}
	}

	if len(out.Relations) == 0 {
		return nil, fmt.Errorf("quiz: no relation statements found")
	}
	if out.Subject == "" || out.Object == "" {
		return nil, fmt.Errorf("quiz: question line not found")
	}
	if len(out.Options) != len(answerOptions) {
		return nil, fmt.Errorf("quiz: expected %d answer options, found %d", len(answerOptions), len(out.Options))
	}
	return out, nil
}

func parseOptionText(s string) (Category, bool) {
	switch {
	case s == noneOptionText:
		return None, true
	case optionAncestorRe.MatchString(s):
		return Ancestor, true
	case optionDescendantRe.MatchString(s):
		return Descendant, true
	case optionCommonAncestorRe.MatchString(s):
		return CommonAncestor, true
	case optionCommonDescendantRe.MatchString(s):
		return CommonDescendant, true
	default:
		return "", false
	}
}

// Classify rebuilds an indexed edge set from the parsed statements and runs
// the relationship classifier on the query pair.
func (p *ParsedQuiz) Classify() (Category, error) {
	if p == nil {
		return "", fmt.Errorf("quiz: nil parsed quiz")
	}

	idx := make(map[string]int)
	id := func(name string) int {
		if v, ok := idx[name]; ok {
			return v
		}
		v := len(idx)
		idx[name] = v
		return v
	}

	edges := make([]Edge, 0, len(p.Relations))
	for _, r := range p.Relations {
		edges = append(edges, Edge{Ancestor: id(r.Ancestor), Descendant: id(r.Descendant)})
	}

	subject, ok := idx[p.Subject]
	if !ok {
		return "", fmt.Errorf("quiz: subject %q not present in relation statements", p.Subject)
	}
	object, ok := idx[p.Object]
	if !ok {
		return "", fmt.Errorf("quiz: object %q not present in relation statements", p.Object)
	}

	return Classify(edges, len(idx), subject, object), nil
}

// Verify re-derives the ground truth for a rendered quiz and checks it
// against the recorded correct answer index.
func Verify(text string, answer int) error {
	p, err := ParseQuiz(text)
	if err != nil {
		return err
	}

	got, err := p.Classify()
	if err != nil {
		return err
	}

	want, ok := p.Options[answer]
	if !ok {
		return fmt.Errorf("quiz: answer index %d out of range", answer)
	}
	if got != want {
		return fmt.Errorf("quiz: recorded answer %d is %s but classifier derived %s", answer, want, got)
	}
	if want == None {
		return fmt.Errorf("quiz: recorded answer %d is the none option, which is never correct", answer)
	}
	return nil
}
