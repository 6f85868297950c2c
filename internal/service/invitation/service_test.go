package invitation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/domain/invitation"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
)

type fakeInvitationRepository struct {
	invitation.InvitationRepository
	byEmail map[string]invitation.Invitation
}

func (f *fakeInvitationRepository) GetOrCreate(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, bool, error) {
	if existing, ok := f.byEmail[inv.Email]; ok {
		return existing, false, nil
	}
	inv.ID = "inv-" + inv.Email
	f.byEmail[inv.Email] = inv
	return inv, true, nil
}

func (f *fakeInvitationRepository) GetByToken(ctx context.Context, token string) (invitation.Invitation, error) {
	for _, inv := range f.byEmail {
		if inv.Token == token {
			return inv, nil
		}
	}
	return invitation.Invitation{}, invitation.ErrInvitationNotFound
}

func (f *fakeInvitationRepository) MarkAccepted(ctx context.Context, id string) error {
	for email, inv := range f.byEmail {
		if inv.ID == id {
			if inv.Accepted {
				return invitation.ErrInvitationAlreadyUsed
			}
			inv.Accepted = true
			f.byEmail[email] = inv
			return nil
		}
	}
	return invitation.ErrInvitationNotFound
}

type fakeUserRepository struct {
	user.UserRepository
	created []user.User
}

func (f *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return email == "taken@terralogix.test", nil
}

func (f *fakeUserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	u.ID = "user-new"
	f.created = append(f.created, u)
	return u, nil
}

type inlineTransactor struct{}

func (inlineTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEmail struct {
	sent []string
	err  error
}

func (f *fakeEmail) SendInvitation(to, appName, inviteURL string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, inviteURL)
	return nil
}

func (f *fakeEmail) SendPasswordResetNotice(to, appName string) error { return nil }

type fakeAudit struct {
	audit.Service
	actions []string
}

func (f *fakeAudit) Log(ctx context.Context, userID *string, action, details string) {
	f.actions = append(f.actions, action)
}

type fixture struct {
	svc   invitation.InvitationService
	repo  *fakeInvitationRepository
	users *fakeUserRepository
	email *fakeEmail
	audit *fakeAudit
}

func newFixture() *fixture {
	f := &fixture{
		repo:  &fakeInvitationRepository{byEmail: map[string]invitation.Invitation{}},
		users: &fakeUserRepository{},
		email: &fakeEmail{},
		audit: &fakeAudit{},
	}
	f.svc = NewInvitationService(f.repo, f.users, inlineTransactor{}, f.email, f.audit, "Terralogix HR", "https://hr.terralogix.test/")
	return f
}

func adminContext() context.Context {
	return jwt.NewContext(context.Background(), jwt.Claims{UserID: "admin-1", Role: user.RoleAdmin})
}

func TestInvite(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Invite(adminContext(), invitation.InviteRequest{Email: " New.Hire@Terralogix.test "})
	require.NoError(t, err)

	inv := f.repo.byEmail["new.hire@terralogix.test"]
	assert.Equal(t, "Invitation sent", resp.Status)
	assert.Equal(t, "new.hire@terralogix.test", resp.Email)
	assert.Equal(t, "https://hr.terralogix.test/accept-invite/"+inv.Token+"/", resp.InviteURL)
	assert.Equal(t, []string{resp.InviteURL}, f.email.sent)
	assert.Equal(t, []string{audit.ActionInvitationSent}, f.audit.actions)

	again, err := f.svc.Invite(adminContext(), invitation.InviteRequest{Email: "new.hire@terralogix.test"})
	require.NoError(t, err)
	assert.Equal(t, resp.InviteURL, again.InviteURL)
}

func TestInvite_Errors(t *testing.T) {
	f := newFixture()
	f.repo.byEmail["done@terralogix.test"] = invitation.Invitation{ID: "inv-1", Email: "done@terralogix.test", Accepted: true}

	_, err := f.svc.Invite(adminContext(), invitation.InviteRequest{Email: "done@terralogix.test"})
	assert.ErrorIs(t, err, invitation.ErrEmailAlreadyAccepted)

	hr := jwt.NewContext(context.Background(), jwt.Claims{UserID: "hr-1", Role: user.RoleHR})
	_, err = f.svc.Invite(hr, invitation.InviteRequest{Email: "x@terralogix.test"})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	f.email.err = errors.New("smtp down")
	_, err = f.svc.Invite(adminContext(), invitation.InviteRequest{Email: "y@terralogix.test"})
	assert.ErrorContains(t, err, "smtp down")
}

func TestAccept(t *testing.T) {
	f := newFixture()
	f.repo.byEmail["invitee@terralogix.test"] = invitation.Invitation{ID: "inv-1", Email: "invitee@terralogix.test", Token: "tok-1"}

	resp, err := f.svc.Accept(context.Background(), invitation.AcceptRequest{Token: "tok-1", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "invitee@terralogix.test", resp.Email)
	require.Len(t, f.users.created, 1)
	assert.Equal(t, user.RoleStaff, f.users.created[0].Role)
	assert.NotEqual(t, "password123", f.users.created[0].PasswordHash)

	_, err = f.svc.Accept(context.Background(), invitation.AcceptRequest{Token: "tok-1", Password: "password123"})
	assert.ErrorIs(t, err, invitation.ErrInvitationAlreadyUsed)

	_, err = f.svc.Accept(context.Background(), invitation.AcceptRequest{Token: "missing", Password: "password123"})
	assert.ErrorIs(t, err, invitation.ErrInvitationNotFound)
}

func TestAccept_EmailTaken(t *testing.T) {
	f := newFixture()
	f.repo.byEmail["taken@terralogix.test"] = invitation.Invitation{ID: "inv-2", Email: "taken@terralogix.test", Token: "tok-2"}

	_, err := f.svc.Accept(context.Background(), invitation.AcceptRequest{Token: "tok-2", Password: "password123"})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}
