// Package leave 建立每个人的请假日索引：三类请假在约束求解上等价，合并为统一的不可用日集合
package leave

import (
	"fmt"

	"github.com/paiban/paiban/pkg/model"
)

// Index 人员请假索引
type Index struct {
	unavailable map[int]map[int]model.LeaveKind // personID -> day -> 请假类型（取首个命中的类型）
}

// Build 根据人员列表与日历天数构建请假索引；同一人同一天出现在多个请假集合视为重复声明，返回 INVALID_INPUT 级别错误
func Build(personnel []model.Person, numDays int) (*Index, error) {
	idx := &Index{unavailable: make(map[int]map[int]model.LeaveKind, len(personnel))}

	for _, p := range personnel {
		days := make(map[int]model.LeaveKind)
		add := func(kind model.LeaveKind, list []int) error {
			for _, d := range list {
				if d < 1 || d > numDays {
					return fmt.Errorf("人员 %d 的请假日 %d 超出当月范围 1..%d", p.ID, d, numDays)
				}
				if _, dup := days[d]; dup {
					return fmt.Errorf("人员 %d 在第 %d 天重复声明了请假", p.ID, d)
				}
				days[d] = kind
			}
			return nil
		}
		if err := add(model.LeaveRequested, p.RequestedLeaves); err != nil {
			return nil, err
		}
		if err := add(model.LeaveExtra, p.ExtraLeaves); err != nil {
			return nil, err
		}
		if err := add(model.LeaveAnnual, p.AnnualLeaves); err != nil {
			return nil, err
		}
		idx.unavailable[p.ID] = days
	}

	return idx, nil
}

// IsUnavailable 判断某人在某天是否已声明请假（任意类型）
func (idx *Index) IsUnavailable(personID, day int) bool {
	days, ok := idx.unavailable[personID]
	if !ok {
		return false
	}
	_, unavailable := days[day]
	return unavailable
}

// Days 返回某人全部不可用日（未排序）
func (idx *Index) Days(personID int) []int {
	days := idx.unavailable[personID]
	out := make([]int, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	return out
}

// Count 返回某人声明的请假总天数
func (idx *Index) Count(personID int) int {
	return len(idx.unavailable[personID])
}
