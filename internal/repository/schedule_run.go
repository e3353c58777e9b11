package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ScheduleRun 一次 generate_schedule 调用的审计记录
//
// 仅用于事后追溯，从不被读回参与求解；字段故意不做 omitempty，
// 保持审计表的列集合稳定。
type ScheduleRun struct {
	ID             uuid.UUID `json:"id"`
	RunID          string    `json:"run_id"`
	Month          string    `json:"month"`
	PersonnelCount int       `json:"personnel_count"`
	Status         string    `json:"status"`
	ErrorCode      string    `json:"error_code"`
	ObjectiveValue float64   `json:"objective_value"`
	FairnessGini   float64   `json:"fairness_gini"`
	DurationMs     int64     `json:"duration_ms"`
	RequestDigest  string    `json:"request_digest"`
	CreatedAt      time.Time `json:"created_at"`
}

// ScheduleRunRepository 排班运行审计日志仓储，仅追加写入
type ScheduleRunRepository struct {
	db DB
}

// NewScheduleRunRepository 创建排班运行审计日志仓储
func NewScheduleRunRepository(db DB) *ScheduleRunRepository {
	return &ScheduleRunRepository{db: db}
}

// Record 追加一条运行记录
func (r *ScheduleRunRepository) Record(ctx context.Context, run *ScheduleRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	const query = `
		INSERT INTO schedule_runs
			(id, run_id, month, personnel_count, status, error_code,
			 objective_value, fairness_gini, duration_ms, request_digest, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.RunID, run.Month, run.PersonnelCount, run.Status, run.ErrorCode,
		run.ObjectiveValue, run.FairnessGini, run.DurationMs, run.RequestDigest, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("写入排班运行记录失败: %w", err)
	}
	return nil
}

// List 按时间倒序列出最近的运行记录
func (r *ScheduleRunRepository) List(ctx context.Context, filter ListFilter) ([]*ScheduleRun, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	const query = `
		SELECT id, run_id, month, personnel_count, status, error_code,
		       objective_value, fairness_gini, duration_ms, request_digest, created_at
		FROM schedule_runs
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, filter.Offset, limit)
	if err != nil {
		return nil, fmt.Errorf("查询排班运行记录失败: %w", err)
	}
	defer rows.Close()

	var runs []*ScheduleRun
	for rows.Next() {
		run := &ScheduleRun{}
		if err := rows.Scan(
			&run.ID, &run.RunID, &run.Month, &run.PersonnelCount, &run.Status, &run.ErrorCode,
			&run.ObjectiveValue, &run.FairnessGini, &run.DurationMs, &run.RequestDigest, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描排班运行记录失败: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Digest 对请求体做一次稳定的指纹摘要，用于审计记录而不保存完整请求
func Digest(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
