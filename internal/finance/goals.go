package finance

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/models"
)

const day = 24 * time.Hour

// GoalProgress is the derived progress of one savings goal.
type GoalProgress struct {
	GoalID              string          `json:"goal_id"`
	Name                string          `json:"name"`
	Category            string          `json:"category"`
	Priority            int             `json:"priority,omitempty"`
	CurrentAmount       decimal.Decimal `json:"current_amount"`
	TargetAmount        decimal.Decimal `json:"target_amount"`
	RemainingAmount     decimal.Decimal `json:"remaining_amount"`
	PercentComplete     float64         `json:"percent_complete"`
	DailyRate           decimal.Decimal `json:"daily_rate"`
	EstimatedCompletion *time.Time      `json:"estimated_completion,omitempty"`
}

// Completed reports whether the goal has reached its target.
func (p GoalProgress) Completed() bool {
	return p.CurrentAmount.GreaterThanOrEqual(p.TargetAmount)
}

// ProgressOf derives progress and a completion estimate for a goal.
//
// The estimate needs at least two contributions and an unmet target. The
// contribution rate is the total contributed divided by the days between the
// first and last contribution, never less than one day.
func ProgressOf(g models.Goal, now time.Time) GoalProgress {
	current := g.CurrentAmount()
	p := GoalProgress{
		GoalID:          g.ID,
		Name:            g.Name,
		Category:        g.Category,
		Priority:        g.Priority,
		CurrentAmount:   current,
		TargetAmount:    g.TargetAmount,
		RemainingAmount: decimal.Max(g.TargetAmount.Sub(current), decimal.Zero),
		PercentComplete: Percent(current, g.TargetAmount),
		DailyRate:       decimal.Zero,
	}

	if len(g.Contributions) < 2 || p.Completed() {
		return p
	}

	dates := make([]time.Time, len(g.Contributions))
	for i, c := range g.Contributions {
		dates[i] = c.Date
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	span := math.Max(1, dates[len(dates)-1].Sub(dates[0]).Hours()/24)
	p.DailyRate = current.Div(decimal.NewFromFloat(span))
	if !p.DailyRate.IsPositive() {
		return p
	}

	days := p.RemainingAmount.Div(p.DailyRate).IntPart()
	eta := now.Add(time.Duration(days) * day)
	p.EstimatedCompletion = &eta
	return p
}

// GoalsProgress derives progress for every goal, keeping input order.
func GoalsProgress(goals []models.Goal, now time.Time) []GoalProgress {
	out := make([]GoalProgress, len(goals))
	for i := range goals {
		out[i] = ProgressOf(goals[i], now)
	}
	return out
}

// TopGoals returns at most n goals ordered by priority when both goals carry
// one, otherwise by completion percentage. A non-positive n returns all.
func TopGoals(goals []models.Goal, n int, now time.Time) []GoalProgress {
	progress := GoalsProgress(goals, now)
	sortStable(progress, func(a, b GoalProgress) bool {
		if a.Priority != 0 && b.Priority != 0 {
			return a.Priority > b.Priority
		}
		return a.PercentComplete > b.PercentComplete
	})
	if n > 0 && len(progress) > n {
		progress = progress[:n]
	}
	return progress
}

// sortStable sorts s in place keeping equal elements in their original order.
func sortStable[T any](s []T, less func(a, b T) bool) {
	sort.SliceStable(s, func(i, j int) bool { return less(s[i], s[j]) })
}
