package fairness

import (
	"math"
	"testing"

	"github.com/paiban/paiban/pkg/model"
)

func TestAnalyze_ComputesLoadsAndGini(t *testing.T) {
	personnel := []model.Person{
		{ID: 1, Role: model.RoleShift},
		{ID: 2, Role: model.RoleShift},
		{ID: 99, Role: model.RoleNonShift},
	}

	schedule := model.Schedule{
		"2025-09-01": model.DayAssignment{P: []int{1}, S: []int{2}},
		"2025-09-02": model.DayAssignment{P: []int{1}, M: []int{2}},
		"2025-09-03": model.DayAssignment{S: []int{2}},
		"2025-09-04": model.DayAssignment{M: []int{2}},
	}
	// person 1: 2 shifts, person 2: 4 shifts. person 99 never appears and must be excluded.

	report := Analyze(schedule, personnel)

	if report.Max != 4 || report.Min != 2 {
		t.Errorf("Max/Min = %d/%d, want 4/2", report.Max, report.Min)
	}
	if report.Mean != 3 {
		t.Errorf("Mean = %v, want 3", report.Mean)
	}
	if report.Imbalance != 2 {
		t.Errorf("Imbalance = %d, want 2 (matches the load_max - load_min objective)", report.Imbalance)
	}
	wantGini := 4.0 / 24.0
	if math.Abs(report.Gini-wantGini) > 1e-9 {
		t.Errorf("Gini = %v, want %v", report.Gini, wantGini)
	}
	if len(report.Loads) != 2 {
		t.Errorf("len(Loads) = %d, want 2 (non-shift-role personnel excluded)", len(report.Loads))
	}
}

func TestAnalyze_NoShiftRolePersonnel(t *testing.T) {
	personnel := []model.Person{{ID: 1, Role: model.RoleNonShift}}
	report := Analyze(model.Schedule{}, personnel)

	if report.Max != 0 || report.Min != 0 || report.Gini != 0 {
		t.Errorf("Report = %+v, want zero value when no shift-role personnel exist", report)
	}
}

func TestGini_PerfectEquality(t *testing.T) {
	if g := gini([]int{5, 5, 5}); g != 0 {
		t.Errorf("gini() = %v, want 0 for perfectly equal loads", g)
	}
}
