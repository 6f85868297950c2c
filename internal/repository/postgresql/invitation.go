package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/terralogix/hr-backend-go/internal/domain/invitation"
	"github.com/terralogix/hr-backend-go/internal/pkg/database"
)

type invitationRepositoryImpl struct {
	db *database.DB
}

// NewInvitationRepository creates a new invitation repository instance
func NewInvitationRepository(db *database.DB) invitation.InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

const invitationColumns = `id, email, token, invited_by, accepted, accepted_at, created_at`

func scanInvitation(row pgx.Row) (invitation.Invitation, error) {
	var inv invitation.Invitation
	err := row.Scan(
		&inv.ID,
		&inv.Email,
		&inv.Token,
		&inv.InvitedBy,
		&inv.Accepted,
		&inv.AcceptedAt,
		&inv.CreatedAt,
	)
	return inv, err
}

// GetOrCreate implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) GetOrCreate(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, bool, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return invitation.Invitation{}, false, err
	}

	query := `
		INSERT INTO invitations (id, email, token, invited_by)
		VALUES ($1, LOWER($2), $3, $4)
		ON CONFLICT (email) DO NOTHING
		RETURNING ` + invitationColumns

	created, err := scanInvitation(q.QueryRow(ctx, query, id, inv.Email, inv.Token, inv.InvitedBy))
	if err == nil {
		return created, true, nil
	}
	if !isNotFound(err) {
		return invitation.Invitation{}, false, fmt.Errorf("failed to create invitation: %w", err)
	}

	existing, err := scanInvitation(q.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE email = LOWER($1)`, inv.Email))
	if err != nil {
		return invitation.Invitation{}, false, fmt.Errorf("failed to get invitation: %w", err)
	}
	return existing, false, nil
}

// GetByToken implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) GetByToken(ctx context.Context, token string) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	inv, err := scanInvitation(q.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token = $1`, token))
	if err != nil {
		if isNotFound(err) {
			return invitation.Invitation{}, invitation.ErrInvitationNotFound
		}
		return invitation.Invitation{}, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// List implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) List(ctx context.Context) ([]invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+invitationColumns+` FROM invitations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []invitation.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// MarkAccepted implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) MarkAccepted(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, `
		UPDATE invitations SET accepted = true, accepted_at = NOW()
		WHERE id = $1 AND accepted = false
	`, id)
	if err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return invitation.ErrInvitationAlreadyUsed
	}
	return nil
}

// Delete implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return invitation.ErrInvitationNotFound
	}
	return nil
}
