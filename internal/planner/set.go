package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/aidanlsb/setlist/internal/config"
	"github.com/aidanlsb/setlist/internal/plandoc"
	"github.com/aidanlsb/setlist/internal/slugs"
)

// ErrInvalidDeliverable indicates a deliverable number outside 1..3.
var ErrInvalidDeliverable = errors.New("invalid deliverable number")

// SetRequest sets a single value without prompting. Exactly one of Block and
// Deliverable is used; Deliverable takes precedence when non-zero.
type SetRequest struct {
	// Block is a block title, configured alias, goal label, or slug.
	Block string
	// Deliverable is 1-based.
	Deliverable int
	Value       string
}

// Set applies one value and commits the result like Run.
func (e *Editor) Set(ctx context.Context, req SetRequest) (*Result, error) {
	if req.Deliverable != 0 && (req.Deliverable < 1 || req.Deliverable > plandoc.DeliverableCount) {
		return nil, fmt.Errorf("%w: %d (expected 1-%d)", ErrInvalidDeliverable, req.Deliverable, plandoc.DeliverableCount)
	}
	if err := checkSingleLine(req.Value); err != nil {
		return nil, err
	}

	doc, err := e.Load()
	if err != nil {
		return nil, err
	}
	snap, err := e.Current(doc)
	if err != nil {
		return nil, err
	}

	answers := currentAnswers(snap)
	if req.Deliverable != 0 {
		i := req.Deliverable - 1
		answers.Deliverables[i] = plandoc.Resolve(answers.Deliverables[i], req.Value, false)
		return e.commit(ctx, doc, snap, answers)
	}

	i, err := findGoal(doc, snap, req.Block)
	if err != nil {
		return nil, err
	}
	// findGoal may have extended snap.
	answers.Goals = currentAnswers(snap).Goals
	answers.Goals[i] = plandoc.Resolve(answers.Goals[i], req.Value, true)
	return e.commit(ctx, doc, snap, answers)
}

func currentAnswers(snap *Snapshot) Answers {
	var a Answers
	for _, g := range snap.Goals {
		a.Goals = append(a.Goals, g.Current())
	}
	for _, raw := range snap.Deliverables {
		a.Deliverables = append(a.Deliverables, plandoc.Unescape(raw))
	}
	return a
}

// findGoal returns the index in snap.Goals of the goal named by query. A
// block that is not a configured goal is appended to snap when its title
// matches.
func findGoal(doc *plandoc.Document, snap *Snapshot, query string) (int, error) {
	for i, g := range snap.Goals {
		if slugs.Matches(g.Title, query) || slugs.Matches(g.Goal.DisplayLabel(), query) {
			return i, nil
		}
		for _, alias := range g.Goal.Titles {
			if slugs.Matches(alias, query) {
				return i, nil
			}
		}
	}

	for _, title := range doc.Titles() {
		if !slugs.Matches(title, query) {
			continue
		}
		raw, err := doc.BlockDescription(title)
		if err != nil {
			return 0, err
		}
		snap.Goals = append(snap.Goals, GoalState{
			Goal:  config.Goal{Titles: []string{title}, Label: title},
			Title: title,
			Raw:   raw,
		})
		return len(snap.Goals) - 1, nil
	}

	return 0, fmt.Errorf("%w: %q", plandoc.ErrBlockNotFound, query)
}
