package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

var planEventColumns = []string{
	"id", "sequence", "timestamp", "request_id", "student_name",
	"focus_subject", "source", "reason", "error_message", "steps", "latency_ms",
}

func (r *eventRepo) AppendPlan(ctx context.Context, data PlanEventData) error {
	steps, err := json.Marshal(data.Steps)
	if err != nil {
		return fmt.Errorf("marshal plan steps: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args, err := r.sb.Insert("plan_events").
		Columns(planEventColumns[1:]...).
		Values(
			seqNum,
			formatTime(time.Now()),
			data.RequestID,
			data.StudentName,
			data.FocusSubject,
			data.Source,
			data.Reason,
			data.ErrorMessage,
			string(steps),
			data.LatencyMs,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save plan event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryPlanEvents(ctx context.Context, opts QueryOpts) ([]PlanEvent, error) {
	query, args, err := applyQueryOpts(r.sb.Select(planEventColumns...).From("plan_events"), opts).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query plan events: %w", err)
	}
	defer rows.Close()

	var out []PlanEvent
	for rows.Next() {
		var (
			e     PlanEvent
			ts    string
			steps string
		)
		err := rows.Scan(
			&e.ID, &e.Sequence, &ts, &e.RequestID, &e.StudentName,
			&e.FocusSubject, &e.Source, &e.Reason, &e.ErrorMessage, &steps, &e.LatencyMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan plan event: %w", err)
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		if err := json.Unmarshal([]byte(steps), &e.Steps); err != nil {
			return nil, fmt.Errorf("decode plan steps: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
