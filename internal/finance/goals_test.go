package finance

import (
	"testing"
	"time"

	"finboard/internal/models"
)

func goal(id, target string, priority int, contributions ...models.GoalContribution) models.Goal {
	g := models.Goal{Name: "goal-" + id, TargetAmount: d(target), Priority: priority, Contributions: contributions}
	g.ID = id
	return g
}

func contribution(amount string, on time.Time) models.GoalContribution {
	return models.GoalContribution{Amount: d(amount), Date: on}
}

func TestProgressOf(t *testing.T) {
	day0 := date(2025, 1, 1)
	day10 := day0.AddDate(0, 0, 10)

	t.Run("estimates_from_contribution_rate", func(t *testing.T) {
		g := goal("g", "1000", 0, contribution("100", day10), contribution("100", day0))
		p := ProgressOf(g, day10)

		assertDecimal(t, "current", p.CurrentAmount, "200")
		assertDecimal(t, "remaining", p.RemainingAmount, "800")
		assertDecimal(t, "daily rate", p.DailyRate, "20")
		if p.PercentComplete != 20 {
			t.Errorf("expected 20%%, got %v", p.PercentComplete)
		}
		if p.EstimatedCompletion == nil {
			t.Fatal("expected a completion estimate")
		}
		if want := day10.AddDate(0, 0, 40); !p.EstimatedCompletion.Equal(want) {
			t.Errorf("expected estimate %s, got %s", want, p.EstimatedCompletion)
		}
	})

	t.Run("reached_target_has_no_estimate", func(t *testing.T) {
		g := goal("g", "150", 0, contribution("100", day0), contribution("100", day10))
		p := ProgressOf(g, day10)
		if p.PercentComplete < 100 {
			t.Errorf("expected at least 100%%, got %v", p.PercentComplete)
		}
		if p.EstimatedCompletion != nil {
			t.Error("expected no estimate once the target is reached")
		}
		if !p.Completed() {
			t.Error("expected goal to be completed")
		}
	})

	t.Run("single_contribution_has_no_estimate", func(t *testing.T) {
		p := ProgressOf(goal("g", "1000", 0, contribution("100", day0)), day10)
		if p.EstimatedCompletion != nil {
			t.Error("expected no estimate from one contribution")
		}
	})

	t.Run("same_day_contributions_use_one_day_span", func(t *testing.T) {
		g := goal("g", "1000", 0, contribution("50", day0), contribution("50", day0))
		p := ProgressOf(g, day0)
		assertDecimal(t, "daily rate", p.DailyRate, "100")
		if want := day0.AddDate(0, 0, 9); !p.EstimatedCompletion.Equal(want) {
			t.Errorf("expected estimate %s, got %s", want, p.EstimatedCompletion)
		}
	})

	t.Run("zero_target", func(t *testing.T) {
		if p := ProgressOf(goal("g", "0", 0), day0); p.PercentComplete != 0 {
			t.Errorf("expected 0%%, got %v", p.PercentComplete)
		}
	})
}

func TestTopGoals(t *testing.T) {
	now := date(2025, 1, 1)
	goals := []models.Goal{
		goal("low", "100", 1, contribution("90", now)),
		goal("high", "100", 5, contribution("10", now)),
		goal("none-a", "100", 0, contribution("30", now)),
		goal("none-b", "100", 0, contribution("60", now)),
	}

	top := TopGoals(goals, 3, now)
	if len(top) != 3 {
		t.Fatalf("expected 3 goals, got %d", len(top))
	}
	if top[0].GoalID != "high" {
		t.Errorf("expected high priority goal first, got %s", top[0].GoalID)
	}

	all := TopGoals(goals, 0, now)
	if len(all) != len(goals) {
		t.Errorf("expected all goals, got %d", len(all))
	}
}
