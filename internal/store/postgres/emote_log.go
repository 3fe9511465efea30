package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/emotebot/internal/domain"
)

type EmoteLogRepo struct {
	pool *pgxpool.Pool
}

var _ domain.EmoteLogRepository = (*EmoteLogRepo)(nil)

func NewEmoteLogRepo(pool *pgxpool.Pool) *EmoteLogRepo {
	return &EmoteLogRepo{pool: pool}
}

func (r *EmoteLogRepo) Append(ctx context.Context, e *domain.EmoteLogEntry) error {
	targets := e.TargetIDs
	if targets == nil {
		targets = []string{}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO emote_log (id, user_id, workspace_id, emote_id, target_ids, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.UserID, nilIfEmpty(e.WorkspaceID), e.EmoteID, targets, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("emoteLogRepo.Append: %w", err)
	}

	return nil
}

func (r *EmoteLogRepo) Count(ctx context.Context, q domain.StatsQuery) (int64, error) {
	where, args := statsWhere(q)

	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM emote_log`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("emoteLogRepo.Count: %w", err)
	}

	return count, nil
}

func (r *EmoteLogRepo) Top(ctx context.Context, q domain.StatsQuery, limit int) ([]domain.EmoteCount, error) {
	where, args := statsWhere(q)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx,
		`SELECT emote_id, COUNT(*) AS n FROM emote_log`+where+`
		 GROUP BY emote_id
		 ORDER BY n DESC, emote_id ASC
		 LIMIT $`+strconv.Itoa(len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("emoteLogRepo.Top: %w", err)
	}
	defer rows.Close()

	var counts []domain.EmoteCount
	for rows.Next() {
		var c domain.EmoteCount

		err = rows.Scan(&c.EmoteID, &c.Count)
		if err != nil {
			return nil, fmt.Errorf("emoteLogRepo.Top: scan: %w", err)
		}
		counts = append(counts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("emoteLogRepo.Top: rows: %w", err)
	}

	return counts, nil
}

// statsWhere builds the WHERE clause for q. Received queries match the user
// against target ids.
func statsWhere(q domain.StatsQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if q.WorkspaceID != "" {
		args = append(args, q.WorkspaceID)
		conds = append(conds, "workspace_id = $"+strconv.Itoa(len(args)))
	}
	if q.UserID != "" {
		args = append(args, q.UserID)
		if q.Received {
			conds = append(conds, "$"+strconv.Itoa(len(args))+" = ANY(target_ids)")
		} else {
			conds = append(conds, "user_id = $"+strconv.Itoa(len(args)))
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
