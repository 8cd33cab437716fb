package bot

import "caravan/internal/bot/internal"

// tieEpsilon is the score gap under which two moves count as equally good.
const tieEpsilon = 1e-6

// SelectionContext holds the state for the move selection pipeline.
type SelectionContext struct {
	Candidates    []internal.ScoredMove
	SelectedIndex int
}

// SelectionRule breaks ties between moves the scorer rates equally.
type SelectionRule interface {
	Name() string
	Apply(ctx *SelectionContext)
}

// DefaultRules is the tie-breaking pipeline used by the scoring bots.
var DefaultRules = []SelectionRule{&FavorPlaysRule{}, &SaveFaceCardsRule{}}

// FavorPlaysRule prefers putting a card on the table over discarding.
type FavorPlaysRule struct{}

func (r *FavorPlaysRule) Name() string { return "FavorPlays" }

func (r *FavorPlaysRule) Apply(ctx *SelectionContext) {
	if ctx.Candidates[ctx.SelectedIndex].Move.IsPlay() {
		return
	}
	for i, c := range ctx.Candidates {
		if c.Move.IsPlay() && tied(ctx, i) {
			ctx.SelectedIndex = i
			return
		}
	}
}

// SaveFaceCardsRule prefers spending an anchor over a face card.
type SaveFaceCardsRule struct{}

func (r *SaveFaceCardsRule) Name() string { return "SaveFaceCards" }

func (r *SaveFaceCardsRule) Apply(ctx *SelectionContext) {
	current := ctx.Candidates[ctx.SelectedIndex].Move
	if !current.IsPlay() || current.Card.Rank.IsAnchor() {
		return
	}
	for i, c := range ctx.Candidates {
		if c.Move.IsPlay() && c.Move.Card.Rank.IsAnchor() && tied(ctx, i) {
			ctx.SelectedIndex = i
			return
		}
	}
}

func tied(ctx *SelectionContext, i int) bool {
	d := ctx.Candidates[i].Score - ctx.Candidates[ctx.SelectedIndex].Score
	return d > -tieEpsilon && d < tieEpsilon
}

// selectBest returns the index of the highest scoring candidate after the rules ran.
func selectBest(candidates []internal.ScoredMove, rules []SelectionRule) int {
	best := 0
	for i, c := range candidates {
		if c.Score > candidates[best].Score {
			best = i
		}
	}
	ctx := &SelectionContext{Candidates: candidates, SelectedIndex: best}
	for _, rule := range rules {
		rule.Apply(ctx)
	}
	return ctx.SelectedIndex
}
