package constraint

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/roster/calendar"
	"github.com/paiban/paiban/pkg/roster/leave"
	"github.com/paiban/paiban/pkg/roster/variable"
)

// Builder 按 §4.2 规定的顺序向模型提交全部约束
type Builder struct {
	posters []Poster
}

// NewBuilder 构造约束建造者，posters 的顺序即发布顺序 (a)-(i)
func NewBuilder() *Builder {
	return &Builder{
		posters: []Poster{
			NewCoveragePoster(),
			NewAtMostOnePoster(),
			NewLeaveExclusionPoster(),
			NewRoleEligibilityPoster(),
			NewTransitionPoster(),
			NewConsecutiveWorkPoster(),
			NewConsecutiveNightPoster(),
			NewMandatoryLeavePoster(),
			NewNightCapPoster(),
		},
	}
}

// Post 依次调用全部约束单元；任一单元失败立即中止并返回带约束名的错误
func (b *Builder) Post(m *cpmodel.CpModelBuilder, vars *variable.Factory, cal *calendar.Calendar, leaves *leave.Index, personnel []model.Person, maxNightShifts int) error {
	ctx := &Context{
		Model:          m,
		Vars:           vars,
		Calendar:       cal,
		Leaves:         leaves,
		Personnel:      personnel,
		MaxNightShifts: maxNightShifts,
	}

	for _, poster := range b.posters {
		if err := poster.Post(ctx); err != nil {
			return fmt.Errorf("约束 %q 提交失败: %w", poster.Name(), err)
		}
	}
	return nil
}

// NumConstraintGroups 返回约束组数量，供日志/指标使用
func (b *Builder) NumConstraintGroups() int {
	return len(b.posters)
}
