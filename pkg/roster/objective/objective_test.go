package objective

import (
	"testing"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/roster/variable"
)

func TestPost_NonShiftRoleExcluded(t *testing.T) {
	builder := cpmodel.NewCpModelBuilder()
	personnel := []model.Person{{ID: 1, Role: model.RoleNonShift}}
	vars := variable.New(builder, personnel, []int{1})

	Post(builder, vars, personnel)

	if _, err := builder.Model(); err != nil {
		t.Errorf("Model() error = %v, want a well-formed model even with no shift-role personnel", err)
	}
}

func TestPost_MinimizesLoadImbalance(t *testing.T) {
	builder := cpmodel.NewCpModelBuilder()
	personnel := []model.Person{
		{ID: 1, Role: model.RoleShift},
		{ID: 2, Role: model.RoleShift},
	}
	vars := variable.New(builder, personnel, []int{1})

	// Pin person 1 to a load of exactly 1 and free person 2 down to a single
	// candidate shift; the balancing objective should push person 2 to take it.
	builder.AddEquality(vars.X(1, 1, model.Morning), cpmodel.NewConstant(1))
	builder.AddEquality(vars.X(1, 1, model.Evening), cpmodel.NewConstant(0))
	builder.AddEquality(vars.X(1, 1, model.Night), cpmodel.NewConstant(0))
	builder.AddEquality(vars.X(2, 1, model.Evening), cpmodel.NewConstant(0))
	builder.AddEquality(vars.X(2, 1, model.Night), cpmodel.NewConstant(0))

	Post(builder, vars, personnel)

	m, err := builder.Model()
	if err != nil {
		t.Fatalf("Model() error = %v", err)
	}
	response, err := cpmodel.SolveCpModel(m)
	if err != nil {
		t.Fatalf("SolveCpModel() error = %v", err)
	}

	if !cpmodel.SolutionBooleanValue(response, vars.X(2, 1, model.Morning)) {
		t.Error("balancing objective should assign person 2 the only available shift to match person 1's load")
	}
	if response.GetObjectiveValue() != 0 {
		t.Errorf("ObjectiveValue() = %v, want 0 (load_max - load_min at perfect balance)", response.GetObjectiveValue())
	}
}
