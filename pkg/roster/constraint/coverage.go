package constraint

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/paiban/pkg/model"
)

// CoveragePoster 实现 §4.2(a)：每日每班次的出勤人数必须恰好等于需求头数
type CoveragePoster struct{ BasePoster }

// NewCoveragePoster 构造覆盖约束
func NewCoveragePoster() *CoveragePoster {
	return &CoveragePoster{BasePoster{name: "coverage"}}
}

// Post 对每个 (day, shift) 发出 Σ_p x[p,d,s] = required(d,s)
func (c *CoveragePoster) Post(ctx *Context) error {
	for _, d := range ctx.Vars.Days() {
		for _, s := range model.ShiftTypes() {
			expr := cpmodel.NewLinearExpr()
			for _, p := range ctx.Vars.Persons() {
				expr.Add(ctx.Vars.X(p, d, s))
			}
			required := ctx.Calendar.Required(d, s)
			ctx.Model.AddEquality(expr, cpmodel.NewConstant(int64(required)))
		}
	}
	return nil
}
