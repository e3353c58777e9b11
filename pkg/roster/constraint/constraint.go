// Package constraint 将排班规则翻译为 CP-SAT 模型上的线性约束
package constraint

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/roster/calendar"
	"github.com/paiban/paiban/pkg/roster/leave"
	"github.com/paiban/paiban/pkg/roster/variable"
)

// Poster 表示可向模型提交一组约束的最小单元
type Poster interface {
	Name() string
	Post(ctx *Context) error
}

// BasePoster 提供 Poster 的公共字段，具体约束只需嵌入并补充 Post 方法
type BasePoster struct {
	name string
}

// Name 返回约束名
func (b BasePoster) Name() string {
	return b.name
}

// Context 约束构建过程共享的只读上下文
type Context struct {
	Model          *cpmodel.CpModelBuilder
	Vars           *variable.Factory
	Calendar       *calendar.Calendar
	Leaves         *leave.Index
	Personnel      []model.Person
	MaxNightShifts int
}
