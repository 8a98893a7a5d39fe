package service

import (
	"context"
	"errors"

	"huduma/internal/identity/models"
	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	"huduma/pkg/email"
	audit "huduma/pkg/platform/audit"
	"huduma/pkg/platform/sentinel"
	"huduma/pkg/requestcontext"
)

// ListCitizens returns every citizen account with its profile, newest first.
func (s *Service) ListCitizens(ctx context.Context) ([]*models.Account, error) {
	users, err := s.users.ListByRole(ctx, id.RoleCitizen)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list citizens")
	}
	ids := make([]id.UserID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	profiles, err := s.profiles.FindCitizenProfiles(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profiles")
	}
	out := make([]*models.Account, 0, len(users))
	for _, u := range users {
		out = append(out, &models.Account{User: u, CitizenProfile: profiles[u.ID]})
	}
	return out, nil
}

// GetCitizen loads a single citizen. Staff ids read as not found.
func (s *Service) GetCitizen(ctx context.Context, userID id.UserID) (*models.Account, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Citizen not found.")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load citizen")
	}
	if !user.IsCitizen() {
		return nil, dErrors.New(dErrors.CodeNotFound, "Citizen not found.")
	}
	return s.account(ctx, user)
}

func (s *Service) CountCitizens(ctx context.Context) (int, error) {
	n, err := s.users.CountByRole(ctx, id.RoleCitizen)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count citizens")
	}
	return n, nil
}

// Citizens bulk-loads accounts for request enrichment. Unknown ids are
// absent from the result.
func (s *Service) Citizens(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*models.Account, error) {
	if len(userIDs) == 0 {
		return map[id.UserID]*models.Account{}, nil
	}
	users, err := s.users.FindUsers(ctx, userIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load citizens")
	}
	profiles, err := s.profiles.FindCitizenProfiles(ctx, userIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profiles")
	}
	out := make(map[id.UserID]*models.Account, len(users))
	for uid, u := range users {
		out[uid] = &models.Account{User: u, CitizenProfile: profiles[uid]}
	}
	return out, nil
}

// EnsureAdmin creates the bootstrap admin unless the email is already
// registered. It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, adminEmail, password, fullName string) (bool, error) {
	adminEmail = email.Normalize(adminEmail)
	if adminEmail == "" || password == "" {
		return false, dErrors.New(dErrors.CodeBadRequest, "admin email and password are required")
	}
	if _, err := s.users.FindByEmail(ctx, adminEmail); err == nil {
		return false, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check admin")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	user, err := models.NewUser(id.NewUserID(), adminEmail, fullName, id.RoleAdmin, hash, requestcontext.Now(ctx))
	if err != nil {
		return false, err
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		return s.emit(ctx, audit.Event{
			Action: string(audit.EventAdminCreated),
			UserID: user.ID,
		})
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return false, nil
		}
		return false, coded(err, "failed to create admin")
	}
	s.logger.InfoContext(ctx, "admin created", "user_id", user.ID.String())
	return true, nil
}
