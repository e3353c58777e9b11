// Package objective 实现 §4.3 的工作量均衡目标：最小化 load_max - load_min
package objective

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/roster/variable"
)

// Post 为每个轮班角色人员定义 load[p] := Σ_{d,s} x[p,d,s]，引入 load_max/load_min 整数变量，
// 约束 load_min ≤ load[p] ≤ load_max，并将 load_max - load_min 设为最小化目标。
//
// 非轮班人员不参与均衡项，因为其可排班次远窄于轮班人员，参与比较没有意义。
func Post(m *cpmodel.CpModelBuilder, vars *variable.Factory, personnel []model.Person) {
	shiftRoleIDs := make([]int, 0, len(personnel))
	for _, p := range personnel {
		if p.IsShiftRole() {
			shiftRoleIDs = append(shiftRoleIDs, p.ID)
		}
	}
	if len(shiftRoleIDs) == 0 {
		return
	}

	maxPossibleLoad := int64(len(vars.Days()) * len(model.ShiftTypes()))

	loadMax := m.NewIntVar(0, maxPossibleLoad).WithName("load_max")
	loadMin := m.NewIntVar(0, maxPossibleLoad).WithName("load_min")

	for _, p := range shiftRoleIDs {
		load := cpmodel.NewLinearExpr()
		for _, d := range vars.Days() {
			for _, s := range model.ShiftTypes() {
				load.Add(vars.X(p, d, s))
			}
		}
		m.AddLessOrEqual(loadMin, load)
		m.AddLessOrEqual(load, loadMax)
	}

	imbalance := cpmodel.NewLinearExpr()
	imbalance.Add(loadMax)
	imbalance.AddTerm(loadMin, -1)
	m.Minimize(imbalance)
}
