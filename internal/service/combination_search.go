package service

import (
	"context"
	"math"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// SearchBudget bounds an otherwise exhaustive search. Zero means unlimited.
type SearchBudget struct {
	MaxEvaluations int64
}

// SearchResult is the best schedule found together with search statistics.
type SearchResult struct {
	Schedule models.Schedule
	Score    models.ScoreBreakdown
	// Evaluated counts the complete schedules that were scored.
	Evaluated int64
	// Nodes counts every recursive step, partial selections included.
	Nodes int64
	// Exhaustive is false when the budget or the context stopped the search
	// early; Schedule is then the best found so far.
	Exhaustive bool
}

// searchState is the accumulator owned by a single SearchBestSchedule call.
type searchState struct {
	ctx    context.Context
	index  CatalogIndex
	prefs  models.Preferences
	budget SearchBudget

	selection models.Schedule
	best      models.Schedule
	bestScore models.ScoreBreakdown

	evaluated int64
	nodes     int64
	stopped   bool
}

// SearchBestSchedule enumerates every complete schedule (one candidate per
// group, subjects then groups in index order) and returns the one with the
// strictly highest score. Ties keep the first schedule found.
//
// The caller's context and the budget are checked at every recursive step;
// tripping either returns the best schedule found so far with
// Exhaustive=false.
func SearchBestSchedule(ctx context.Context, index CatalogIndex, prefs models.Preferences, budget SearchBudget) SearchResult {
	if ctx == nil {
		ctx = context.Background()
	}
	state := &searchState{
		ctx:       ctx,
		index:     index,
		prefs:     prefs,
		budget:    budget,
		selection: make(models.Schedule, 0, index.GroupCount()),
		best:      models.Schedule{},
		bestScore: models.ScoreBreakdown{Total: math.Inf(-1)},
	}
	state.walkSubjects(0)

	return SearchResult{
		Schedule:   state.best,
		Score:      state.bestScore,
		Evaluated:  state.evaluated,
		Nodes:      state.nodes,
		Exhaustive: !state.stopped,
	}
}

func (s *searchState) walkSubjects(subjectPos int) {
	if s.shouldStop() {
		return
	}
	if subjectPos == len(s.index.Subjects) {
		s.evaluate()
		return
	}
	s.walkGroups(subjectPos, 0)
}

func (s *searchState) walkGroups(subjectPos, groupPos int) {
	if s.shouldStop() {
		return
	}
	groups := s.index.Subjects[subjectPos].Groups
	if groupPos == len(groups) {
		s.walkSubjects(subjectPos + 1)
		return
	}
	for _, candidate := range groups[groupPos].Candidates {
		s.selection = append(s.selection, candidate)
		s.walkGroups(subjectPos, groupPos+1)
		s.selection = s.selection[:len(s.selection)-1]
		if s.stopped {
			return
		}
	}
}

func (s *searchState) evaluate() {
	s.evaluated++
	score := ScoreCombination(s.selection, s.prefs)
	if score.Total > s.bestScore.Total {
		s.bestScore = score
		s.best = append(make(models.Schedule, 0, len(s.selection)), s.selection...)
	}
}

func (s *searchState) shouldStop() bool {
	if s.stopped {
		return true
	}
	s.nodes++
	if s.budget.MaxEvaluations > 0 && s.evaluated >= s.budget.MaxEvaluations {
		s.stopped = true
		return true
	}
	if s.ctx.Err() != nil {
		s.stopped = true
		return true
	}
	return false
}
