package constraint

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/paiban/pkg/model"
)

// AtMostOnePoster 实现 §4.2(b)：同一人同一天至多值一个班次
type AtMostOnePoster struct{ BasePoster }

// NewAtMostOnePoster 构造互斥约束
func NewAtMostOnePoster() *AtMostOnePoster {
	return &AtMostOnePoster{BasePoster{name: "at_most_one_shift"}}
}

// Post 对每个 (person, day) 发出 Σ_s x[p,d,s] ≤ 1
func (c *AtMostOnePoster) Post(ctx *Context) error {
	for _, p := range ctx.Vars.Persons() {
		for _, d := range ctx.Vars.Days() {
			vars := make([]cpmodel.BoolVar, 0, 3)
			for _, s := range model.ShiftTypes() {
				vars = append(vars, ctx.Vars.X(p, d, s))
			}
			ctx.Model.AddAtMostOne(vars...)
		}
	}
	return nil
}

// LeaveExclusionPoster 实现 §4.2(c)：已声明请假的日子不得安排任何班次
type LeaveExclusionPoster struct{ BasePoster }

// NewLeaveExclusionPoster 构造请假排除约束
func NewLeaveExclusionPoster() *LeaveExclusionPoster {
	return &LeaveExclusionPoster{BasePoster{name: "leave_exclusion"}}
}

// Post 对每个 (person, day) 若该日已请假，则 w[p,d] = 0
func (c *LeaveExclusionPoster) Post(ctx *Context) error {
	for _, p := range ctx.Vars.Persons() {
		for _, d := range ctx.Vars.Days() {
			if ctx.Leaves.IsUnavailable(p, d) {
				ctx.Model.AddEquality(ctx.Vars.W(p, d), cpmodel.NewConstant(0))
			}
		}
	}
	return nil
}

// RoleEligibilityPoster 实现 §4.2(d)：非轮班角色仅可在普通工作日值早班
type RoleEligibilityPoster struct{ BasePoster }

// NewRoleEligibilityPoster 构造角色资格约束
func NewRoleEligibilityPoster() *RoleEligibilityPoster {
	return &RoleEligibilityPoster{BasePoster{name: "role_eligibility"}}
}

// Post 对每个非轮班人员：晚班、夜班恒为 0；早班仅在普通工作日允许
func (c *RoleEligibilityPoster) Post(ctx *Context) error {
	zero := cpmodel.NewConstant(0)
	for _, person := range ctx.Personnel {
		if person.IsShiftRole() {
			continue
		}
		for _, d := range ctx.Vars.Days() {
			ctx.Model.AddEquality(ctx.Vars.X(person.ID, d, model.Evening), zero)
			ctx.Model.AddEquality(ctx.Vars.X(person.ID, d, model.Night), zero)
			if !ctx.Calendar.IsWeekday(d) {
				ctx.Model.AddEquality(ctx.Vars.X(person.ID, d, model.Morning), zero)
			}
		}
	}
	return nil
}

// TransitionPoster 实现 §4.2(e)：夜班与晚班之后的次日班次限制
type TransitionPoster struct{ BasePoster }

// NewTransitionPoster 构造班次衔接约束
func NewTransitionPoster() *TransitionPoster {
	return &TransitionPoster{BasePoster{name: "valid_transitions"}}
}

// Post 对每个 (person, day<N)：
//
//	x[p,d,M] + x[p,d+1,P] ≤ 1
//	x[p,d,M] + x[p,d+1,S] ≤ 1
//	x[p,d,S] + x[p,d+1,P] ≤ 1
func (c *TransitionPoster) Post(ctx *Context) error {
	days := ctx.Vars.Days()
	for _, p := range ctx.Vars.Persons() {
		for i := 0; i < len(days)-1; i++ {
			d, next := days[i], days[i+1]

			addPairCap(ctx.Model, ctx.Vars.X(p, d, model.Night), ctx.Vars.X(p, next, model.Morning))
			addPairCap(ctx.Model, ctx.Vars.X(p, d, model.Night), ctx.Vars.X(p, next, model.Evening))
			addPairCap(ctx.Model, ctx.Vars.X(p, d, model.Evening), ctx.Vars.X(p, next, model.Morning))
		}
	}
	return nil
}

// addPairCap 发出 a + b ≤ 1
func addPairCap(m *cpmodel.CpModelBuilder, a, b cpmodel.BoolVar) {
	expr := cpmodel.NewLinearExpr()
	expr.Add(a)
	expr.Add(b)
	m.AddLessOrEqual(expr, cpmodel.NewConstant(1))
}
