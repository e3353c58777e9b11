// Package fairness 对已生成的排班表做一次工作量公平性描述性统计，补充 §4.3 的单一目标值
//
// 这是辅助报告，从不反馈进求解过程：调整它不会改变排班结果。
package fairness

import (
	"math"
	"sort"

	"github.com/paiban/paiban/pkg/model"
)

// PersonLoad 单人工作量
type PersonLoad struct {
	PersonID int `json:"person_id"`
	Shifts   int `json:"shifts"`
}

// Report 工作量公平性报告
type Report struct {
	Loads     []PersonLoad `json:"loads"`
	Max       int          `json:"max"`
	Min       int          `json:"min"`
	Mean      float64      `json:"mean"`
	Gini      float64      `json:"gini"`
	Imbalance int          `json:"imbalance"` // load_max - load_min，与 §4.3 目标值一致
}

// Analyze 统计每个轮班角色人员在本月的出勤总次数，并计算基尼系数作为不平等程度的描述性指标
func Analyze(schedule model.Schedule, personnel []model.Person) Report {
	counts := make(map[int]int)
	for _, p := range personnel {
		if p.IsShiftRole() {
			counts[p.ID] = 0
		}
	}

	for _, day := range schedule {
		for _, s := range model.ShiftTypes() {
			for _, personID := range day.Assigned(s) {
				if _, tracked := counts[personID]; tracked {
					counts[personID]++
				}
			}
		}
	}

	loads := make([]PersonLoad, 0, len(counts))
	for personID, c := range counts {
		loads = append(loads, PersonLoad{PersonID: personID, Shifts: c})
	}
	sort.Slice(loads, func(i, j int) bool { return loads[i].PersonID < loads[j].PersonID })

	if len(loads) == 0 {
		return Report{}
	}

	values := make([]int, len(loads))
	for i, l := range loads {
		values[i] = l.Shifts
	}

	max, min, sum := values[0], values[0], 0
	for _, v := range values {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
		sum += v
	}
	mean := float64(sum) / float64(len(values))

	return Report{
		Loads:     loads,
		Max:       max,
		Min:       min,
		Mean:      mean,
		Gini:      gini(values),
		Imbalance: max - min,
	}
}

// gini 计算基尼系数：对一组非负整数样本的平均绝对差除以两倍均值
func gini(values []int) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]int, n)
	copy(sorted, values)
	sort.Ints(sorted)

	var sumAbsDiff float64
	var total float64
	for i := 0; i < n; i++ {
		total += float64(sorted[i])
		for j := 0; j < n; j++ {
			sumAbsDiff += math.Abs(float64(sorted[i] - sorted[j]))
		}
	}
	if total == 0 {
		return 0
	}
	return sumAbsDiff / (2 * float64(n) * total)
}
