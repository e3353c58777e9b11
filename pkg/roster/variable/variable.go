// Package variable 在 CP-SAT 模型上分配决策布尔变量 x[p,d,s] 及其派生的当日是否出勤变量 w[p,d]
package variable

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/paiban/pkg/model"
)

// assignKey 标识一个 (人员, 日期, 班次) 三元组
type assignKey struct {
	personID int
	day      int
	shift    model.ShiftType
}

// workKey 标识一个 (人员, 日期) 二元组
type workKey struct {
	personID int
	day      int
}

// Factory 在给定的 CP 模型构建器上分配并持有全部决策变量
type Factory struct {
	builder *cpmodel.CpModelBuilder
	x       map[assignKey]cpmodel.BoolVar
	w       map[workKey]cpmodel.BoolVar
	persons []int
	days    []int
}

// New 为每个 (人员, 日期, 班次) 创建一个布尔变量 x，并为每个 (人员, 日期) 创建派生变量 w，
// 同时发出 w[p,d] = Σ_s x[p,d,s] 的等式约束以完成通道化（channelling）。
func New(builder *cpmodel.CpModelBuilder, personnel []model.Person, days []int) *Factory {
	f := &Factory{
		builder: builder,
		x:       make(map[assignKey]cpmodel.BoolVar, len(personnel)*len(days)*3),
		w:       make(map[workKey]cpmodel.BoolVar, len(personnel)*len(days)),
	}

	for _, p := range personnel {
		f.persons = append(f.persons, p.ID)
	}
	f.days = append(f.days, days...)

	for _, p := range personnel {
		for _, d := range days {
			for _, s := range model.ShiftTypes() {
				key := assignKey{p.ID, d, s}
				f.x[key] = builder.NewBoolVar().WithName(fmt.Sprintf("x_p%d_d%d_%s", p.ID, d, s))
			}

			wVar := builder.NewBoolVar().WithName(fmt.Sprintf("w_p%d_d%d", p.ID, d))
			f.w[workKey{p.ID, d}] = wVar

			expr := cpmodel.NewLinearExpr()
			for _, s := range model.ShiftTypes() {
				expr.Add(f.x[assignKey{p.ID, d, s}])
			}
			builder.AddEquality(expr, wVar)
		}
	}

	return f
}

// X 返回 (person, day, shift) 对应的决策变量
func (f *Factory) X(personID, day int, s model.ShiftType) cpmodel.BoolVar {
	return f.x[assignKey{personID, day, s}]
}

// W 返回 (person, day) 对应的出勤指示变量
func (f *Factory) W(personID, day int) cpmodel.BoolVar {
	return f.w[workKey{personID, day}]
}

// Persons 返回全部人员 id（与构建顺序一致）
func (f *Factory) Persons() []int {
	return f.persons
}

// Days 返回全部日期索引（与构建顺序一致）
func (f *Factory) Days() []int {
	return f.days
}

// NumVars 返回已分配的决策变量总数，供日志/指标使用
func (f *Factory) NumVars() int {
	return len(f.x) + len(f.w)
}
