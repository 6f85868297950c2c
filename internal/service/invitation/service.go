package invitation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/domain/invitation"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/database"
	"github.com/terralogix/hr-backend-go/internal/pkg/email"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	authService "github.com/terralogix/hr-backend-go/internal/service/auth"
)

const statusSent = "Invitation sent"

type InvitationServiceImpl struct {
	invitation.InvitationRepository
	userRepo     user.UserRepository
	transactor   database.Transactor
	emailService email.EmailService
	auditService audit.Service
	appName      string
	baseURL      string
}

func NewInvitationService(
	repo invitation.InvitationRepository,
	userRepo user.UserRepository,
	transactor database.Transactor,
	emailService email.EmailService,
	auditService audit.Service,
	appName string,
	baseURL string,
) invitation.InvitationService {
	return &InvitationServiceImpl{
		InvitationRepository: repo,
		userRepo:             userRepo,
		transactor:           transactor,
		emailService:         emailService,
		auditService:         auditService,
		appName:              appName,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

func requireInvitationManage(ctx context.Context) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, err
	}
	if !claims.Can(user.PermissionInvitationManage) {
		return jwt.Claims{}, user.ErrInsufficientPermissions
	}
	return claims, nil
}

func (s *InvitationServiceImpl) inviteURL(token string) string {
	return fmt.Sprintf("%s/accept-invite/%s/", s.baseURL, token)
}

// Invite implements invitation.InvitationService. Inviting the same address
// again resends the original token.
func (s *InvitationServiceImpl) Invite(ctx context.Context, req invitation.InviteRequest) (invitation.InviteResponse, error) {
	claims, err := requireInvitationManage(ctx)
	if err != nil {
		return invitation.InviteResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return invitation.InviteResponse{}, err
	}

	inv, created, err := s.InvitationRepository.GetOrCreate(ctx, invitation.Invitation{
		Email:     req.Email,
		Token:     uuid.NewString(),
		InvitedBy: &claims.UserID,
	})
	if err != nil {
		return invitation.InviteResponse{}, err
	}
	if !created && inv.Accepted {
		return invitation.InviteResponse{}, invitation.ErrEmailAlreadyAccepted
	}

	url := s.inviteURL(inv.Token)
	if err := s.emailService.SendInvitation(inv.Email, s.appName, url); err != nil {
		return invitation.InviteResponse{}, fmt.Errorf("failed to send invitation email: %w", err)
	}

	s.auditService.Log(ctx, &claims.UserID, audit.ActionInvitationSent, "Invitation sent to "+inv.Email)

	return invitation.InviteResponse{
		Status:    statusSent,
		InviteURL: url,
		Email:     inv.Email,
	}, nil
}

// List implements invitation.InvitationService.
func (s *InvitationServiceImpl) List(ctx context.Context) ([]invitation.InvitationResponse, error) {
	if _, err := requireInvitationManage(ctx); err != nil {
		return nil, err
	}

	invitations, err := s.InvitationRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]invitation.InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		responses = append(responses, invitation.ToResponse(inv))
	}
	return responses, nil
}

// Delete implements invitation.InvitationService.
func (s *InvitationServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := requireInvitationManage(ctx); err != nil {
		return err
	}
	return s.InvitationRepository.Delete(ctx, id)
}

// Accept implements invitation.InvitationService.
func (s *InvitationServiceImpl) Accept(ctx context.Context, req invitation.AcceptRequest) (invitation.AcceptResponse, error) {
	if err := req.Validate(); err != nil {
		return invitation.AcceptResponse{}, err
	}

	inv, err := s.InvitationRepository.GetByToken(ctx, req.Token)
	if err != nil {
		return invitation.AcceptResponse{}, err
	}
	if !inv.CanBeAccepted() {
		return invitation.AcceptResponse{}, invitation.ErrInvitationAlreadyUsed
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, inv.Email)
	if err != nil {
		return invitation.AcceptResponse{}, err
	}
	if exists {
		return invitation.AcceptResponse{}, user.ErrUserEmailExists
	}

	hashed, err := authService.HashPassword(req.Password)
	if err != nil {
		return invitation.AcceptResponse{}, err
	}

	var created user.User
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.InvitationRepository.MarkAccepted(ctx, inv.ID); err != nil {
			return err
		}
		created, err = s.userRepo.Create(ctx, user.User{
			Email:        inv.Email,
			PasswordHash: hashed,
			Role:         user.RoleStaff,
		})
		return err
	})
	if err != nil {
		return invitation.AcceptResponse{}, err
	}

	return invitation.AcceptResponse{
		Message: "Account created",
		UserID:  created.ID,
		Email:   created.Email,
	}, nil
}
