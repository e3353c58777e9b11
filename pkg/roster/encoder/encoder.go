// Package encoder 把求解器返回的变量赋值转换为 §6 规定的日期键排班结构
package encoder

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/roster/calendar"
	"github.com/paiban/paiban/pkg/roster/variable"
)

// Encode 按照日历的时间顺序遍历每一天，读取 x[p,d,s] 的解值，产出按 ISO 日期排序的排班表，
// 每个班次内的人员 id 升序排列。
func Encode(response *cpmodel.CpSolverResponse, vars *variable.Factory, cal *calendar.Calendar) model.Schedule {
	schedule := make(model.Schedule, len(vars.Days()))

	for _, d := range vars.Days() {
		var day model.DayAssignment
		for _, p := range vars.Persons() {
			for _, s := range model.ShiftTypes() {
				if cpmodel.SolutionBooleanValue(response, vars.X(p, d, s)) {
					day.Add(s, p)
				}
			}
		}
		day.Sort()
		schedule[cal.Date(d)] = day
	}

	return schedule
}
