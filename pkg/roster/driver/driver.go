// Package driver 调用 CP-SAT 引擎求解已建模的排班问题，并把求解器状态映射为排班结果状态
package driver

import (
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	"github.com/google/or-tools/ortools/sat/go/sat"
	"github.com/paiban/paiban/pkg/model"
)

// Config 驱动器配置
type Config struct {
	TimeLimit        time.Duration // 求解时限，默认 60s
	NumSearchWorkers int           // 并行搜索 worker 数，<=0 时交给求解器默认值
}

// Result 一次求解调用的结果
type Result struct {
	Outcome        model.Outcome
	ObjectiveValue float64
	Response       *cpmodel.CpSolverResponse
	Duration       time.Duration
}

// Solve 以给定时限调用 CP-SAT 求解器，把求解器状态映射为四种结果之一：
// OPTIMAL、FEASIBLE 产出排班；INFEASIBLE、TIMEOUT_NO_SOLUTION 不产出排班。
func Solve(builder *cpmodel.CpModelBuilder, cfg Config) (*Result, error) {
	cpModel, err := builder.Model()
	if err != nil {
		return nil, fmt.Errorf("构建 CP 模型失败: %w", err)
	}

	params := &sat.SatParameters{}
	timeLimit := cfg.TimeLimit
	if timeLimit <= 0 {
		timeLimit = 60 * time.Second
	}
	maxTime := timeLimit.Seconds()
	params.MaxTimeInSeconds = &maxTime
	if cfg.NumSearchWorkers > 0 {
		workers := int32(cfg.NumSearchWorkers)
		params.NumSearchWorkers = &workers
	}

	start := time.Now()
	response, err := cpmodel.SolveCpModelWithParameters(cpModel, params)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("求解失败: %w", err)
	}

	return &Result{
		Outcome:        mapStatus(response.GetStatus()),
		ObjectiveValue: response.GetObjectiveValue(),
		Response:       response,
		Duration:       duration,
	}, nil
}

// mapStatus 把求解器返回的状态码映射为排班结果的四种结果之一
func mapStatus(status cpmodel.CpSolverStatus) model.Outcome {
	switch status {
	case cpmodel.CpSolverStatus_OPTIMAL:
		return model.Optimal
	case cpmodel.CpSolverStatus_FEASIBLE:
		return model.Feasible
	case cpmodel.CpSolverStatus_INFEASIBLE:
		return model.Infeasible
	default:
		// UNKNOWN（时限耗尽仍未找到可行解）及 MODEL_INVALID 等其余状态一律归为 TIMEOUT_NO_SOLUTION
		return model.TimeoutNoSolution
	}
}
