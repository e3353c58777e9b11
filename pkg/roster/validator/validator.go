// Package validator 对已生成的排班表做一次独立的、只读的硬约束复核
//
// 任何违例都表明求解器或编码器存在缺陷；这是诊断性质的审计，绝不修改排班表。
package validator

import (
	"fmt"

	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/roster/calendar"
	"github.com/paiban/paiban/pkg/roster/leave"
)

// ViolationType 违例类型，对应 §3 的九条不变式
type ViolationType string

const (
	ViolationCoverage         ViolationType = "coverage"
	ViolationDoubleShift      ViolationType = "double_shift"
	ViolationLeaveExclusion   ViolationType = "leave_exclusion"
	ViolationRoleEligibility  ViolationType = "role_eligibility"
	ViolationTransition       ViolationType = "transition"
	ViolationConsecutiveWork  ViolationType = "consecutive_work"
	ViolationConsecutiveNight ViolationType = "consecutive_night"
	ViolationMandatoryLeave   ViolationType = "mandatory_leave"
	ViolationNightCap         ViolationType = "night_cap"
)

// Violation 单条违例记录
type Violation struct {
	Type    ViolationType
	Day     int
	Person  int
	Message string
}

// assignment 索引 人员 -> 日期 -> assignment 中的单元：该日是否出勤、出勤的班次
type assignment struct {
	worked bool
	shift  model.ShiftType
}

// Audit 对给定排班表复核 §3 的全部九条不变式，返回全部违例；无违例时返回空切片
func Audit(schedule model.Schedule, cal *calendar.Calendar, leaves *leave.Index, personnel []model.Person, maxNightShifts int) []Violation {
	var violations []Violation

	days := cal.Days()
	index := buildIndex(schedule, cal, personnel)

	violations = append(violations, checkCoverage(schedule, cal, days)...)
	violations = append(violations, checkDoubleShift(schedule, cal, days)...)
	violations = append(violations, checkLeaveExclusion(index, leaves, personnel, days)...)
	violations = append(violations, checkRoleEligibility(index, cal, personnel, days)...)
	violations = append(violations, checkTransitions(index, personnel, days)...)
	violations = append(violations, checkConsecutiveWork(index, personnel, days)...)
	violations = append(violations, checkConsecutiveNight(index, personnel, days)...)
	violations = append(violations, checkMandatoryLeave(index, leaves, personnel, days)...)
	violations = append(violations, checkNightCap(index, personnel, days, maxNightShifts)...)

	return violations
}

// buildIndex 把日期键排班表反转为 人员 -> 日期 -> assignment 的索引，便于逐人逐日复核
func buildIndex(schedule model.Schedule, cal *calendar.Calendar, personnel []model.Person) map[int]map[int]assignment {
	index := make(map[int]map[int]assignment, len(personnel))
	for _, p := range personnel {
		index[p.ID] = make(map[int]assignment, len(cal.Days()))
	}

	for _, d := range cal.Days() {
		day := schedule[cal.Date(d)]
		for _, s := range model.ShiftTypes() {
			for _, personID := range day.Assigned(s) {
				if _, ok := index[personID]; !ok {
					index[personID] = make(map[int]assignment)
				}
				index[personID][d] = assignment{worked: true, shift: s}
			}
		}
	}

	return index
}

// checkCoverage 复核不变式 1：每日每班次出勤数等于需求头数
func checkCoverage(schedule model.Schedule, cal *calendar.Calendar, days []int) []Violation {
	var violations []Violation
	for _, d := range days {
		day := schedule[cal.Date(d)]
		for _, s := range model.ShiftTypes() {
			got := len(day.Assigned(s))
			want := cal.Required(d, s)
			if got != want {
				violations = append(violations, Violation{
					Type: ViolationCoverage, Day: d,
					Message: fmt.Sprintf("%s 班 %s 需求 %d 实际 %d", cal.Date(d), s, want, got),
				})
			}
		}
	}
	return violations
}

// checkDoubleShift 复核不变式 2：同一人同一天至多一个班次
func checkDoubleShift(schedule model.Schedule, cal *calendar.Calendar, days []int) []Violation {
	var violations []Violation
	for _, d := range days {
		day := schedule[cal.Date(d)]
		seen := make(map[int]int)
		for _, s := range model.ShiftTypes() {
			for _, personID := range day.Assigned(s) {
				seen[personID]++
			}
		}
		for personID, count := range seen {
			if count > 1 {
				violations = append(violations, Violation{
					Type: ViolationDoubleShift, Day: d, Person: personID,
					Message: fmt.Sprintf("人员 %d 在 %s 被安排了 %d 个班次", personID, cal.Date(d), count),
				})
			}
		}
	}
	return violations
}

// checkLeaveExclusion 复核不变式 3：请假日无任何出勤
func checkLeaveExclusion(index map[int]map[int]assignment, leaves *leave.Index, personnel []model.Person, days []int) []Violation {
	var violations []Violation
	for _, p := range personnel {
		for _, d := range days {
			if leaves.IsUnavailable(p.ID, d) && index[p.ID][d].worked {
				violations = append(violations, Violation{
					Type: ViolationLeaveExclusion, Day: d, Person: p.ID,
					Message: fmt.Sprintf("人员 %d 在请假日 %d 仍被安排出勤", p.ID, d),
				})
			}
		}
	}
	return violations
}

// checkRoleEligibility 复核不变式 4：非轮班人员仅可在普通工作日值早班
func checkRoleEligibility(index map[int]map[int]assignment, cal *calendar.Calendar, personnel []model.Person, days []int) []Violation {
	var violations []Violation
	for _, p := range personnel {
		if p.IsShiftRole() {
			continue
		}
		for _, d := range days {
			a := index[p.ID][d]
			if !a.worked {
				continue
			}
			if a.shift != model.Morning || !cal.IsWeekday(d) {
				violations = append(violations, Violation{
					Type: ViolationRoleEligibility, Day: d, Person: p.ID,
					Message: fmt.Sprintf("非轮班人员 %d 在 %s 被安排了 %s 班", p.ID, cal.Date(d), a.shift),
				})
			}
		}
	}
	return violations
}

// checkTransitions 复核不变式 5：相邻两天的班次衔接合法
func checkTransitions(index map[int]map[int]assignment, personnel []model.Person, days []int) []Violation {
	var violations []Violation
	for _, p := range personnel {
		for i := 0; i < len(days)-1; i++ {
			d, next := days[i], days[i+1]
			cur, nxt := index[p.ID][d], index[p.ID][next]
			if !cur.worked || !nxt.worked {
				continue
			}
			invalid := (cur.shift == model.Night && nxt.shift != model.Night) ||
				(cur.shift == model.Evening && nxt.shift == model.Morning)
			if invalid {
				violations = append(violations, Violation{
					Type: ViolationTransition, Day: d, Person: p.ID,
					Message: fmt.Sprintf("人员 %d 第 %d 天 %s 班到第 %d 天 %s 班的衔接非法", p.ID, d, cur.shift, next, nxt.shift),
				})
			}
		}
	}
	return violations
}

// checkConsecutiveWork 复核不变式 6：任意连续 6 天窗口至多出勤 5 天
func checkConsecutiveWork(index map[int]map[int]assignment, personnel []model.Person, days []int) []Violation {
	var violations []Violation
	const window = 6
	const cap_ = 5
	for _, p := range personnel {
		for i := 0; i+window <= len(days); i++ {
			worked := 0
			for j := 0; j < window; j++ {
				if index[p.ID][days[i+j]].worked {
					worked++
				}
			}
			if worked > cap_ {
				violations = append(violations, Violation{
					Type: ViolationConsecutiveWork, Day: days[i], Person: p.ID,
					Message: fmt.Sprintf("人员 %d 从第 %d 天起的 6 天窗口内出勤 %d 天", p.ID, days[i], worked),
				})
			}
		}
	}
	return violations
}

// checkConsecutiveNight 复核不变式 7：任意连续 3 天窗口至多 2 个夜班
func checkConsecutiveNight(index map[int]map[int]assignment, personnel []model.Person, days []int) []Violation {
	var violations []Violation
	const window = 3
	const cap_ = 2
	for _, p := range personnel {
		for i := 0; i+window <= len(days); i++ {
			nights := 0
			for j := 0; j < window; j++ {
				a := index[p.ID][days[i+j]]
				if a.worked && a.shift == model.Night {
					nights++
				}
			}
			if nights > cap_ {
				violations = append(violations, Violation{
					Type: ViolationConsecutiveNight, Day: days[i], Person: p.ID,
					Message: fmt.Sprintf("人员 %d 从第 %d 天起的 3 天窗口内值 %d 个夜班", p.ID, days[i], nights),
				})
			}
		}
	}
	return violations
}

// checkMandatoryLeave 复核不变式 8：夜班跑道结束后的强制休息
func checkMandatoryLeave(index map[int]map[int]assignment, leaves *leave.Index, personnel []model.Person, days []int) []Violation {
	var violations []Violation
	n := len(days)
	for _, p := range personnel {
		for i := 0; i < n; i++ {
			d := days[i]
			if !index[p.ID][d].worked || index[p.ID][d].shift != model.Night {
				continue
			}
			// 是否为跑道起点（前一天不是夜班）
			if i > 0 {
				prev := index[p.ID][days[i-1]]
				if prev.worked && prev.shift == model.Night {
					continue
				}
			}
			// 测量跑道长度
			runLen := 0
			for j := i; j < n; j++ {
				a := index[p.ID][days[j]]
				if a.worked && a.shift == model.Night {
					runLen++
				} else {
					break
				}
			}
			k := runLen
			if k > 2 {
				k = 2 // §4.2(h) 仅要求 k ∈ {1,2} 的强制休息；超过 2 的跑道本身应已被不变式 7 捕获
			}
			runEnd := i + runLen - 1
			for off := 1; off <= k; off++ {
				idx := runEnd + off
				if idx >= n {
					break // 月末边界：超出 N 的次日义务不存在
				}
				restDay := days[idx]
				if index[p.ID][restDay].worked {
					violations = append(violations, Violation{
						Type: ViolationMandatoryLeave, Day: restDay, Person: p.ID,
						Message: fmt.Sprintf("人员 %d 在第 %d 天的夜班跑道结束后，第 %d 天本应强制休息却被安排出勤", p.ID, d, restDay),
					})
				}
			}
		}
	}
	return violations
}

// checkNightCap 复核不变式 9：每人每月夜班总数不超过上限
func checkNightCap(index map[int]map[int]assignment, personnel []model.Person, days []int, maxNightShifts int) []Violation {
	var violations []Violation
	for _, p := range personnel {
		count := 0
		for _, d := range days {
			a := index[p.ID][d]
			if a.worked && a.shift == model.Night {
				count++
			}
		}
		if count > maxNightShifts {
			violations = append(violations, Violation{
				Type: ViolationNightCap, Person: p.ID,
				Message: fmt.Sprintf("人员 %d 当月夜班 %d 次，超过上限 %d", p.ID, count, maxNightShifts),
			})
		}
	}
	return violations
}
