// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/paiban/paiban/internal/repository"
	"github.com/paiban/paiban/pkg/errors"
	"github.com/paiban/paiban/pkg/model"
	"github.com/paiban/paiban/pkg/roster/engine"
)

// ScheduleHandler 排班处理器，围绕核心入口 engine.Generate 提供 HTTP 绑定
type ScheduleHandler struct {
	engine  *engine.Engine
	runRepo *repository.ScheduleRunRepository
}

// NewScheduleHandler 创建排班处理器
func NewScheduleHandler(eng *engine.Engine, runRepo *repository.ScheduleRunRepository) *ScheduleHandler {
	return &ScheduleHandler{engine: eng, runRepo: runRepo}
}

// GenerateResponse 排班生成成功响应体，对应 §6 的响应 JSON 形状
type GenerateResponse struct {
	RunID     string         `json:"run_id"`
	Status    model.Outcome  `json:"status"`
	Schedule  model.Schedule `json:"schedule"`
	Objective float64        `json:"objective_value"`
	Fairness  FairnessOutput `json:"fairness"`
	Duration  string         `json:"duration"`
}

// FairnessOutput 公平性报告的 HTTP 输出形状
type FairnessOutput struct {
	Max       int     `json:"max"`
	Min       int     `json:"min"`
	Mean      float64 `json:"mean"`
	Gini      float64 `json:"gini"`
	Imbalance int     `json:"imbalance"`
}

// Generate 处理 POST /api/v1/roster/generate：解码请求、调用排班引擎、落审计记录
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req model.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	start := time.Now()
	out, err := h.engine.Generate(req)
	duration := time.Since(start)

	h.audit(r, req, out, err, duration)

	if err != nil {
		respondError(w, toAppError(err))
		return
	}

	resp := GenerateResponse{
		RunID:     out.RunID,
		Status:    out.Status,
		Schedule:  out.Response.Schedule,
		Objective: out.Objective,
		Fairness: FairnessOutput{
			Max:       out.Fairness.Max,
			Min:       out.Fairness.Min,
			Mean:      out.Fairness.Mean,
			Gini:      out.Fairness.Gini,
			Imbalance: out.Fairness.Imbalance,
		},
		Duration: out.Duration.String(),
	}

	respondJSON(w, http.StatusOK, resp)
}

// audit 无论成功或失败都记一条审计日志；审计写入失败不影响 HTTP 响应，只记日志
func (h *ScheduleHandler) audit(r *http.Request, req model.Request, out *engine.Outcome, genErr error, duration time.Duration) {
	if h.runRepo == nil {
		return
	}

	run := &repository.ScheduleRun{
		Month:          req.Config.Month,
		PersonnelCount: len(req.Personnel),
		DurationMs:     duration.Milliseconds(),
		RequestDigest:  repository.Digest(req),
		CreatedAt:      time.Now(),
	}

	if genErr != nil {
		run.Status = "ERROR"
		run.ErrorCode = string(errors.GetCode(genErr))
	} else {
		run.RunID = out.RunID
		run.Status = string(out.Status)
		run.ObjectiveValue = out.Objective
		run.FairnessGini = out.Fairness.Gini
	}

	// 审计写入失败不升级为请求错误：主路径已经由引擎内部日志覆盖
	_ = h.runRepo.Record(r.Context(), run)
}

// toAppError 把 engine.Generate 返回的 error 规整为 *errors.AppError，用于 HTTP 响应
func toAppError(err error) *errors.AppError {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr
	}
	return errors.Wrap(err, errors.CodeInternal, "排班生成失败")
}

// RunsResponse GET /api/v1/roster/runs 的响应体
type RunsResponse struct {
	Runs []*repository.ScheduleRun `json:"runs"`
}

// Runs 处理 GET /api/v1/roster/runs：只读审计日志查询，从不反馈进求解过程
func (h *ScheduleHandler) Runs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	if h.runRepo == nil {
		respondJSON(w, http.StatusOK, RunsResponse{Runs: nil})
		return
	}

	filter := repository.DefaultListFilter()
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		filter = filter.WithLimit(limit)
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		filter = filter.WithOffset(offset)
	}

	runs, err := h.runRepo.List(r.Context(), filter)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询排班运行记录失败"))
		return
	}

	respondJSON(w, http.StatusOK, RunsResponse{Runs: runs})
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应，字段对应 §7 的错误分类
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}
