package postgresql

import (
	"context"
	"fmt"

	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/pkg/database"
	"github.com/terralogix/hr-backend-go/internal/pkg/pagination"
)

type auditRepositoryImpl struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepositoryImpl{db: db}
}

func (r *auditRepositoryImpl) Create(ctx context.Context, l audit.Log) error {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO audit_logs (id, user_id, action, details)
		VALUES ($1, $2, $3, $4)
	`, id, l.UserID, l.Action, l.Details)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *auditRepositoryImpl) List(ctx context.Context, filter audit.Filter) ([]audit.Log, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ""
	args := []interface{}{}
	if filter.Search != nil && *filter.Search != "" {
		where = "WHERE (l.action ILIKE $1 OR u.email ILIKE $1)"
		args = append(args, likePattern(*filter.Search))
	}

	from := `
		FROM audit_logs l
		LEFT JOIN users u ON u.id = l.user_id
	`

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+from+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT l.id, l.user_id, l.action, l.details, l.created_at, u.email
		%s %s
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d
	`, from, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []audit.Log
	for rows.Next() {
		var l audit.Log
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Details, &l.CreatedAt, &l.UserEmail); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
