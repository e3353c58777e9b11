// Package engine 实现核心入口 Generate：request -> Calendar/Leave -> 变量/约束/目标 -> Driver -> Encoder -> Validator -> response
package engine

import (
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/google/uuid"

	"github.com/paiban/paiban/internal/config"
	"github.com/paiban/paiban/internal/metrics"
	"github.com/paiban/paiban/pkg/errors"
	"github.com/paiban/paiban/pkg/logger"
	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/roster/calendar"
	"github.com/paiban/paiban/pkg/roster/constraint"
	"github.com/paiban/paiban/pkg/roster/driver"
	"github.com/paiban/paiban/pkg/roster/encoder"
	"github.com/paiban/paiban/pkg/roster/fairness"
	"github.com/paiban/paiban/pkg/roster/leave"
	"github.com/paiban/paiban/pkg/roster/objective"
	"github.com/paiban/paiban/pkg/roster/validator"
	"github.com/paiban/paiban/pkg/roster/variable"
)

// Engine 持有排班求解所需的静态配置
type Engine struct {
	cfg config.RosterConfig
	log *logger.RosterLogger
}

// New 构造排班引擎
func New(cfg config.RosterConfig) *Engine {
	return &Engine{cfg: cfg, log: logger.NewRosterLogger()}
}

// Outcome 一次 Generate 调用的完整结果，供 HTTP 层组装响应
type Outcome struct {
	RunID     string
	Response  *model.Response
	Fairness  fairness.Report
	Objective float64
	Status    model.Outcome
	Duration  time.Duration
}

// Generate 是核心入口：接收一次排班请求，返回排班表或一个带错误分类的 AppError
func (e *Engine) Generate(req model.Request) (*Outcome, error) {
	runID := uuid.NewString()
	start := time.Now()

	if err := validateInput(req); err != nil {
		return nil, errors.InvalidInput("request", err.Error())
	}

	cal, err := calendar.New(req.Config.Month, req.Config.PublicHolidays, req.Config.SpecialDates)
	if err != nil {
		return nil, errors.InvalidInput("config", err.Error())
	}

	leaves, err := leave.Build(req.Personnel, cal.NumDays())
	if err != nil {
		return nil, errors.InvalidInput("personnel", err.Error())
	}

	maxNightShifts := req.Config.MaxNightShifts
	if maxNightShifts <= 0 {
		maxNightShifts = e.cfg.DefaultMaxNightShifts
	}

	if err := checkCapacity(req.Personnel, cal, leaves, maxNightShifts); err != nil {
		return nil, err
	}

	e.log.StartSolve(runID, len(req.Personnel), cal.NumDays(), e.effectiveTimeLimit())

	builder := cpmodel.NewCpModelBuilder()
	vars := variable.New(builder, req.Personnel, cal.Days())

	cb := constraint.NewBuilder()
	if err := cb.Post(builder, vars, cal, leaves, req.Personnel, maxNightShifts); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "约束建模失败")
	}
	objective.Post(builder, vars, req.Personnel)

	e.log.ConstraintsPosted(runID, vars.NumVars(), cb.NumConstraintGroups())

	result, err := driver.Solve(builder, driver.Config{
		TimeLimit:        e.effectiveTimeLimit(),
		NumSearchWorkers: e.cfg.NumSearchWorkers,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "求解器调用失败")
	}

	metrics.RecordSolve(string(result.Outcome), result.Duration)
	e.log.SolveComplete(runID, string(result.Outcome), result.Duration, result.ObjectiveValue)

	switch result.Outcome {
	case model.Infeasible:
		return nil, errors.Infeasible("在全部硬约束下不存在满足条件的排班方案")
	case model.TimeoutNoSolution:
		return nil, errors.TimeoutNoSolution()
	}

	schedule := encoder.Encode(result.Response, vars, cal)

	if violations := validator.Audit(schedule, cal, leaves, req.Personnel, maxNightShifts); len(violations) > 0 {
		metrics.RecordValidationFailure()
		e.log.ValidationFailed(runID, violations[0].Message)
		return nil, errors.InternalValidationFailed(fmt.Sprintf("%d 条违例，首条: %s", len(violations), violations[0].Message))
	}

	report := fairness.Analyze(schedule, req.Personnel)
	metrics.SetObjectiveValue(runID, result.ObjectiveValue)
	metrics.SetFairnessGini(runID, report.Gini)

	return &Outcome{
		RunID:     runID,
		Response:  &model.Response{Schedule: schedule},
		Fairness:  report,
		Objective: result.ObjectiveValue,
		Status:    result.Outcome,
		Duration:  time.Since(start),
	}, nil
}

// effectiveTimeLimit 返回求解时限，未配置时回退到 60 秒
func (e *Engine) effectiveTimeLimit() time.Duration {
	if e.cfg.DefaultTimeLimit <= 0 {
		return 60 * time.Second
	}
	return e.cfg.DefaultTimeLimit
}

// validateInput 检查请求体的结构性有效性：重复 id、非法角色、非正 id 等
func validateInput(req model.Request) error {
	if len(req.Personnel) == 0 {
		return fmt.Errorf("personnel 不能为空")
	}

	seen := make(map[int]bool, len(req.Personnel))
	for _, p := range req.Personnel {
		if p.ID <= 0 {
			return fmt.Errorf("人员 id 必须为正整数，得到 %d", p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("人员 id %d 重复", p.ID)
		}
		seen[p.ID] = true

		if p.Role != model.RoleShift && p.Role != model.RoleNonShift {
			return fmt.Errorf("人员 %d 的角色 %q 无效", p.ID, p.Role)
		}
	}

	if req.Config.MaxNightShifts < 0 {
		return fmt.Errorf("max_night_shifts 不能为负")
	}

	return nil
}

// checkCapacity 对需求总量做必要条件预检，尽早捕获明显不可能满足的请求，
// 避免浪费一次完整求解；未触发时不代表一定可行，真正的可行性仍由求解器裁定。
func checkCapacity(personnel []model.Person, cal *calendar.Calendar, leaves *leave.Index, maxNightShifts int) error {
	shiftRole := 0
	for _, p := range personnel {
		if p.IsShiftRole() {
			shiftRole++
		}
	}

	totalNightDemand := 0

	for _, d := range cal.Days() {
		reqP := cal.Required(d, model.Morning)
		reqS := cal.Required(d, model.Evening)
		reqM := cal.Required(d, model.Night)
		totalNightDemand += reqM

		available := 0
		shiftRoleAvailable := 0
		for _, p := range personnel {
			if leaves.IsUnavailable(p.ID, d) {
				continue
			}
			available++
			if p.IsShiftRole() {
				shiftRoleAvailable++
			}
		}

		if reqP+reqS+reqM > available {
			return errors.InsufficientCapacity(fmt.Sprintf(
				"第 %d 天总需求 %d 人次，超过当日可用人数 %d", d, reqP+reqS+reqM, available))
		}

		restrictedToShiftRole := reqS + reqM
		if !cal.IsWeekday(d) {
			restrictedToShiftRole += reqP
		}
		if restrictedToShiftRole > shiftRoleAvailable {
			return errors.InsufficientCapacity(fmt.Sprintf(
				"第 %d 天需要 %d 名轮班角色人员，超过可用的 %d 名", d, restrictedToShiftRole, shiftRoleAvailable))
		}
	}

	if shiftRole > 0 && totalNightDemand > shiftRole*maxNightShifts {
		return errors.InsufficientCapacity(fmt.Sprintf(
			"全月夜班需求 %d 人次，超过 %d 名轮班人员在夜班上限 %d 下的总容量 %d",
			totalNightDemand, shiftRole, maxNightShifts, shiftRole*maxNightShifts))
	}

	return nil
}
