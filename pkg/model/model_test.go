package model

import "testing"

func TestHeadCount_Total(t *testing.T) {
	tests := []struct {
		name string
		h    HeadCount
		want int
	}{
		{"weekday defaults", HeadCount{P: 1, S: 2, M: 2}, 5},
		{"weekend defaults", HeadCount{P: 2, S: 2, M: 3}, 7},
		{"all zero special date", HeadCount{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.h.Total(); got != tt.want {
				t.Errorf("Total() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHeadCount_For(t *testing.T) {
	h := HeadCount{P: 1, S: 2, M: 3}
	if h.For(Morning) != 1 || h.For(Evening) != 2 || h.For(Night) != 3 {
		t.Errorf("For() returned wrong values for %+v", h)
	}
}

func TestDayAssignment_SortAndAdd(t *testing.T) {
	var d DayAssignment
	d.Add(Morning, 3)
	d.Add(Morning, 1)
	d.Add(Night, 2)
	d.Sort()

	if len(d.P) != 2 || d.P[0] != 1 || d.P[1] != 3 {
		t.Errorf("P = %v, want [1 3]", d.P)
	}
	if len(d.M) != 1 || d.M[0] != 2 {
		t.Errorf("M = %v, want [2]", d.M)
	}
	if len(d.S) != 0 {
		t.Errorf("S = %v, want empty", d.S)
	}
}

func TestOutcome_HasSchedule(t *testing.T) {
	cases := map[Outcome]bool{
		Optimal:           true,
		Feasible:          true,
		Infeasible:        false,
		TimeoutNoSolution: false,
	}
	for outcome, want := range cases {
		if got := outcome.HasSchedule(); got != want {
			t.Errorf("%s.HasSchedule() = %v, want %v", outcome, got, want)
		}
	}
}
