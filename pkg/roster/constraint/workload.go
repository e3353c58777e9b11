package constraint

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/paiban/pkg/model"
)

// ConsecutiveWorkPoster 实现 §4.2(f)：任意连续 6 天窗口内，出勤天数不超过 5 天
type ConsecutiveWorkPoster struct{ BasePoster }

// NewConsecutiveWorkPoster 构造连续出勤上限约束
func NewConsecutiveWorkPoster() *ConsecutiveWorkPoster {
	return &ConsecutiveWorkPoster{BasePoster{name: "consecutive_work_cap"}}
}

// Post 对每个人、每个落在当月内的 6 天窗口发出 Σ w[p,i] ≤ 5
func (c *ConsecutiveWorkPoster) Post(ctx *Context) error {
	const window = 6
	const cap_ = 5
	days := ctx.Vars.Days()
	for _, p := range ctx.Vars.Persons() {
		for i := 0; i+window <= len(days); i++ {
			expr := cpmodel.NewLinearExpr()
			for j := 0; j < window; j++ {
				expr.Add(ctx.Vars.W(p, days[i+j]))
			}
			ctx.Model.AddLessOrEqual(expr, cpmodel.NewConstant(cap_))
		}
	}
	return nil
}

// ConsecutiveNightPoster 实现 §4.2(g)：任意连续 3 天窗口内，夜班天数不超过 2 天
type ConsecutiveNightPoster struct{ BasePoster }

// NewConsecutiveNightPoster 构造连续夜班上限约束
func NewConsecutiveNightPoster() *ConsecutiveNightPoster {
	return &ConsecutiveNightPoster{BasePoster{name: "consecutive_night_cap"}}
}

// Post 对每个人、每个落在当月内的 3 天窗口发出 x[p,d,M]+x[p,d+1,M]+x[p,d+2,M] ≤ 2
func (c *ConsecutiveNightPoster) Post(ctx *Context) error {
	const window = 3
	const cap_ = 2
	days := ctx.Vars.Days()
	for _, p := range ctx.Vars.Persons() {
		for i := 0; i+window <= len(days); i++ {
			expr := cpmodel.NewLinearExpr()
			for j := 0; j < window; j++ {
				expr.Add(ctx.Vars.X(p, days[i+j], model.Night))
			}
			ctx.Model.AddLessOrEqual(expr, cpmodel.NewConstant(cap_))
		}
	}
	return nil
}

// MandatoryLeavePoster 实现 §4.2(h)：夜班连续跑道结束后，强制休息若干天
//
// 单夜情形：x[p,d,M]=1 ∧ x[p,d+1,M]=0 ⇒ w[p,d+1]=0，编码为
//
//	x[p,d,M] − x[p,d+1,M] + w[p,d+1] ≤ 1
//
// 双夜情形：x[p,d,M]=1 ∧ x[p,d+1,M]=1 ⇒ w[p,d+2]=0 ∧ w[p,d+3]=0，编码为
//
//	x[p,d,M] + x[p,d+1,M] + w[p,d+k] ≤ 2    for k ∈ {2,3}
//
// 月末边界：超出 N 的次日义务不再存在。已请假的天数由 (c) 的 w=0 自动满足，无需额外处理。
type MandatoryLeavePoster struct{ BasePoster }

// NewMandatoryLeavePoster 构造夜班后强制休息约束
func NewMandatoryLeavePoster() *MandatoryLeavePoster {
	return &MandatoryLeavePoster{BasePoster{name: "mandatory_post_night_leave"}}
}

// Post 按照上述三条编码，对每个人、每个可能的夜班跑道位置发出约束
func (c *MandatoryLeavePoster) Post(ctx *Context) error {
	days := ctx.Vars.Days()
	n := len(days)

	for _, p := range ctx.Vars.Persons() {
		for i := 0; i < n; i++ {
			d := days[i]

			// 单夜情形，需要 d+1 在月内。
			if i+1 < n {
				next := days[i+1]
				expr := cpmodel.NewLinearExpr()
				expr.Add(ctx.Vars.X(p, d, model.Night))
				expr.AddTerm(ctx.Vars.X(p, next, model.Night), -1)
				expr.Add(ctx.Vars.W(p, next))
				ctx.Model.AddLessOrEqual(expr, cpmodel.NewConstant(1))
			}

			// 双夜情形，需要 d+1 在月内；d+2、d+3 各自独立判断月内与否。
			if i+1 < n {
				next := days[i+1]
				for _, k := range []int{2, 3} {
					if i+k >= n {
						continue
					}
					target := days[i+k]
					expr := cpmodel.NewLinearExpr()
					expr.Add(ctx.Vars.X(p, d, model.Night))
					expr.Add(ctx.Vars.X(p, next, model.Night))
					expr.Add(ctx.Vars.W(p, target))
					ctx.Model.AddLessOrEqual(expr, cpmodel.NewConstant(2))
				}
			}
		}
	}
	return nil
}

// NightCapPoster 实现 §4.2(i)：每人每月夜班总数不超过 max_night_shifts
type NightCapPoster struct{ BasePoster }

// NewNightCapPoster 构造月度夜班上限约束
func NewNightCapPoster() *NightCapPoster {
	return &NightCapPoster{BasePoster{name: "monthly_night_cap"}}
}

// Post 对每个人发出 Σ_d x[p,d,M] ≤ max_night_shifts
func (c *NightCapPoster) Post(ctx *Context) error {
	for _, p := range ctx.Vars.Persons() {
		expr := cpmodel.NewLinearExpr()
		for _, d := range ctx.Vars.Days() {
			expr.Add(ctx.Vars.X(p, d, model.Night))
		}
		ctx.Model.AddLessOrEqual(expr, cpmodel.NewConstant(int64(ctx.MaxNightShifts)))
	}
	return nil
}
