package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/terralogix/hr-backend-go/internal/domain/announcement"
	"github.com/terralogix/hr-backend-go/internal/pkg/database"
	"github.com/terralogix/hr-backend-go/internal/pkg/pagination"
)

type announcementRepositoryImpl struct {
	db *database.DB
}

func NewAnnouncementRepository(db *database.DB) announcement.Repository {
	return &announcementRepositoryImpl{db: db}
}

const announcementSelect = `
	SELECT a.id, a.title, a.body, a.created_by, a.created_at, a.updated_at, u.email
	FROM announcements a
	LEFT JOIN users u ON u.id = a.created_by
`

func scanAnnouncement(row pgx.Row) (announcement.Announcement, error) {
	var a announcement.Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Body, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt, &a.AuthorEmail)
	return a, err
}

func (r *announcementRepositoryImpl) Create(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return announcement.Announcement{}, err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO announcements (id, title, body, created_by)
		VALUES ($1, $2, $3, $4)
	`, id, a.Title, a.Body, a.CreatedBy)
	if err != nil {
		return announcement.Announcement{}, fmt.Errorf("failed to create announcement: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *announcementRepositoryImpl) GetByID(ctx context.Context, id string) (announcement.Announcement, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAnnouncement(q.QueryRow(ctx, announcementSelect+`WHERE a.id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return announcement.Announcement{}, announcement.ErrAnnouncementNotFound
		}
		return announcement.Announcement{}, fmt.Errorf("failed to get announcement: %w", err)
	}
	return a, nil
}

func (r *announcementRepositoryImpl) List(ctx context.Context, page, limit int) ([]announcement.Announcement, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM announcements`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count announcements: %w", err)
	}

	rows, err := q.Query(ctx, announcementSelect+`ORDER BY a.created_at DESC LIMIT $1 OFFSET $2`,
		limit, pagination.Offset(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var announcements []announcement.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan announcement: %w", err)
		}
		announcements = append(announcements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return announcements, total, nil
}

func (r *announcementRepositoryImpl) Update(ctx context.Context, a announcement.Announcement) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, `
		UPDATE announcements SET title = $1, body = $2, updated_at = NOW()
		WHERE id = $3
	`, a.Title, a.Body, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	if result.RowsAffected() == 0 {
		return announcement.ErrAnnouncementNotFound
	}
	return nil
}

func (r *announcementRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	if result.RowsAffected() == 0 {
		return announcement.ErrAnnouncementNotFound
	}
	return nil
}
