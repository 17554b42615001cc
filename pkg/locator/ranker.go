package locator

import (
	"sort"
	"strings"

	"github.com/devicelab-dev/screenmatch/pkg/hierarchy"
	"github.com/devicelab-dev/screenmatch/pkg/similarity"
)

// Ranking constants. Empirically tuned; the algorithm shape does not
// depend on their values.
const (
	AcceptThreshold float32 = 0.4
	BoostFloor      float32 = 0.3 // boosts apply only above this base score
	ClickableBoost  float32 = 0.1
	ButtonBoost     float32 = 0.1
	KeypadScore     float32 = 1.0
	MaxScore        float32 = 1.0

	buttonClassMarker = "Button"
)

// Branch tells which scoring path a candidate took.
type Branch int

const (
	BranchSemantic Branch = iota // query scored against text and description
	BranchKeypad                 // element text is the requested digit
)

// String returns the string representation of Branch
func (b Branch) String() string {
	switch b {
	case BranchSemantic:
		return "semantic"
	case BranchKeypad:
		return "keypad"
	default:
		return "unknown"
	}
}

// Candidate is the scoring breakdown for one element.
type Candidate struct {
	Index   int               `json:"index"` // position in the extracted element list
	Element hierarchy.Element `json:"element"`
	Branch  Branch            `json:"-"`
	Base    float32           `json:"base"`  // before boosts
	Score   float32           `json:"score"` // after boosts, clamped
}

// Ranker scores elements against queries. The zero value uses the
// built-in synonym table.
type Ranker struct {
	Scorer similarity.Scorer
}

// Resolve ranks elems with the default Ranker.
func Resolve(q Query, elems []hierarchy.Element) Result {
	return Ranker{}.Resolve(q, elems)
}

// Score computes the candidate score of a single element.
func (r Ranker) Score(q Query, e hierarchy.Element) Candidate {
	c := Candidate{Element: e, Branch: r.branch(q, e)}

	switch c.Branch {
	case BranchKeypad:
		c.Base = KeypadScore
	default:
		c.Base = r.semantic(q, e)
	}

	c.Score = boost(c.Base, e)
	return c
}

func (r Ranker) branch(q Query, e hierarchy.Element) Branch {
	if q.TargetDigit != "" && strings.TrimSpace(e.Text) == q.TargetDigit {
		return BranchKeypad
	}
	return BranchSemantic
}

func (r Ranker) semantic(q Query, e hierarchy.Element) float32 {
	text := r.Scorer.QueryScore(q.Description, e.Text)
	desc := r.Scorer.QueryScore(q.Description, e.Description)
	if desc > text {
		return desc
	}
	return text
}

func boost(score float32, e hierarchy.Element) float32 {
	if score > BoostFloor {
		if e.Clickable {
			score += ClickableBoost
		}
		if strings.Contains(e.ClassName, buttonClassMarker) {
			score += ButtonBoost
		}
	}
	if score > MaxScore {
		score = MaxScore
	}
	return score
}

func hasLabel(e hierarchy.Element) bool {
	return e.Text != "" || e.Description != ""
}

// Rank scores every labelled element and returns candidates ordered by
// score, highest first. Equal scores keep document order.
func (r Ranker) Rank(q Query, elems []hierarchy.Element) []Candidate {
	candidates := make([]Candidate, 0, len(elems))
	for i, e := range elems {
		if !hasLabel(e) {
			continue
		}
		c := r.Score(q, e)
		c.Index = i
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// Best returns the highest scoring candidate; the first one wins ties.
// ok is false when no element has a label.
func (r Ranker) Best(q Query, elems []hierarchy.Element) (best Candidate, ok bool) {
	for i, e := range elems {
		if !hasLabel(e) {
			continue
		}
		c := r.Score(q, e)
		c.Index = i
		if !ok || c.Score > best.Score {
			best = c
			ok = true
		}
	}
	return best, ok
}

// Resolve picks the best element and accepts it when its score reaches
// AcceptThreshold.
func (r Ranker) Resolve(q Query, elems []hierarchy.Element) Result {
	best, ok := r.Best(q, elems)
	if !ok || best.Score < AcceptThreshold {
		return NotFound("Element not found in UI dump")
	}

	x, y := best.Element.Bounds.Center()
	elemType := ElementGeneric
	if best.Element.Clickable {
		elemType = ElementButton
	}

	return Result{
		Found:       true,
		X:           x,
		Y:           y,
		ElementType: elemType,
		Confidence:  best.Score,
		Description: matchLabel(best.Element.Label(), best.Score),
	}
}
