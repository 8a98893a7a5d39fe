package service

import (
	"context"
	"errors"
	"time"

	"huduma/internal/identity/models"
	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	audit "huduma/pkg/platform/audit"
	"huduma/pkg/platform/sentinel"
	"huduma/pkg/platform/validation"
	"huduma/pkg/requestcontext"
)

const (
	msgPasswordsMismatch = "Passwords do not match."
	msgEmailRegistered   = "Email already registered."
	msgEmailInUse        = "Email already in use."
	msgCurrentPassword   = "Current password is incorrect."
	msgInvalidLogin      = "No active account found with the given credentials"
)

// Register creates a citizen account and its profile atomically.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Normalize()
	fields := map[string]any{}
	if err := validation.Merge(fields, req.Validate()); err != nil {
		return nil, err
	}
	if req.Password != "" && req.ConfirmPassword != "" && req.Password != req.ConfirmPassword {
		fields["confirm_password"] = msgPasswordsMismatch
	}
	if _, ok := fields["email"]; !ok {
		_, err := s.users.FindByEmail(ctx, req.Email)
		switch {
		case err == nil:
			fields["email"] = msgEmailRegistered
		case !errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email")
		}
	}
	if len(fields) > 0 {
		return nil, dErrors.Validation(fields)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	now := requestcontext.Now(ctx)
	user, err := models.NewUser(id.NewUserID(), req.Email, req.FullName, id.RoleCitizen, hash, now)
	if err != nil {
		return nil, err
	}
	profile := &models.CitizenProfile{
		UserID:     user.ID,
		Phone:      req.Phone,
		Gender:     models.Gender(req.Gender),
		Age:        req.Age,
		Address:    req.Address,
		NIDANumber: req.NIDANumber,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		if err := s.profiles.SaveCitizenProfile(ctx, profile); err != nil {
			return err
		}
		return s.emit(ctx, audit.Event{
			Action: string(audit.EventUserRegistered),
			UserID: user.ID,
		})
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.FieldError("email", msgEmailRegistered)
		}
		return nil, coded(err, "failed to register user")
	}

	s.metrics.IncrementUsersRegistered()
	s.logger.InfoContext(ctx, "citizen registered",
		"user_id", user.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return user, nil
}

// Authenticate checks credentials. Every failure reads the same to the
// caller so that emails cannot be enumerated.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	req := models.LoginRequest{Email: email, Password: password}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.authFailed(ctx, id.UserID{}, "unknown_email")
			return nil, dErrors.New(dErrors.CodeUnauthorized, msgInvalidLogin)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if err := s.hasher.Verify(req.Password, user.PasswordHash); err != nil {
		s.authFailed(ctx, user.ID, "bad_password")
		return nil, dErrors.New(dErrors.CodeUnauthorized, msgInvalidLogin)
	}
	if !user.IsActive {
		s.authFailed(ctx, user.ID, "inactive")
		return nil, dErrors.New(dErrors.CodeUnauthorized, msgInvalidLogin)
	}
	return user, nil
}

func (s *Service) authFailed(ctx context.Context, userID id.UserID, reason string) {
	s.logAudit(ctx, audit.Event{
		Action: string(audit.EventAuthFailed),
		UserID: userID,
		Reason: reason,
	})
}

// Me returns the caller's account with its role-appropriate profile.
func (s *Service) Me(ctx context.Context, userID id.UserID) (*models.Account, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.account(ctx, user)
}

// UpdateProfile applies a partial update to the account and ensures the
// role-appropriate profile exists afterwards.
func (s *Service) UpdateProfile(ctx context.Context, userID id.UserID, upd models.ProfileUpdate) (*models.Account, error) {
	upd.Normalize()
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	var acct *models.Account
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.loadUser(ctx, userID)
		if err != nil {
			return err
		}
		if upd.Email != nil && *upd.Email != user.Email {
			other, err := s.users.FindByEmail(ctx, *upd.Email)
			if err == nil && other.ID != user.ID {
				return dErrors.FieldError("email", msgEmailInUse)
			}
			if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email")
			}
			user.Email = *upd.Email
		}
		if upd.FullName != nil {
			user.FullName = *upd.FullName
		}
		if upd.Email != nil || upd.FullName != nil {
			if err := s.users.Update(ctx, user); err != nil {
				if errors.Is(err, sentinel.ErrAlreadyUsed) {
					return dErrors.FieldError("email", msgEmailInUse)
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
			}
		}

		now := requestcontext.Now(ctx)
		acct = &models.Account{User: user}
		if user.IsCitizen() {
			acct.CitizenProfile, err = s.ensureCitizenProfile(ctx, user.ID, upd, now)
		} else {
			acct.OfficerProfile, err = s.ensureOfficerProfile(ctx, user.ID, upd, now)
		}
		return err
	})
	if err != nil {
		return nil, coded(err, "failed to update profile")
	}

	s.logAudit(ctx, audit.Event{
		Action: string(audit.EventProfileUpdated),
		UserID: userID,
	})
	return acct, nil
}

func (s *Service) ensureCitizenProfile(ctx context.Context, userID id.UserID, upd models.ProfileUpdate, now time.Time) (*models.CitizenProfile, error) {
	profile, err := s.profiles.FindCitizenProfile(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		profile, err = models.DefaultCitizenProfile(userID, now), nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	if upd.Phone != nil {
		profile.Phone = *upd.Phone
	}
	if upd.Gender != nil {
		profile.Gender = models.Gender(*upd.Gender)
	}
	if upd.Age != nil {
		profile.Age = *upd.Age
	}
	if upd.Address != nil {
		profile.Address = *upd.Address
	}
	if upd.NIDANumber != nil {
		profile.NIDANumber = *upd.NIDANumber
	}
	profile.UpdatedAt = now
	if err := s.profiles.SaveCitizenProfile(ctx, profile); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
	}
	return profile, nil
}

func (s *Service) ensureOfficerProfile(ctx context.Context, userID id.UserID, upd models.ProfileUpdate, now time.Time) (*models.OfficerProfile, error) {
	profile, err := s.profiles.FindOfficerProfile(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		profile, err = models.DefaultOfficerProfile(userID, now), nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	if upd.Phone != nil {
		profile.Phone = *upd.Phone
	}
	if upd.Position != nil {
		profile.Position = *upd.Position
	}
	if upd.Office != nil {
		profile.Office = *upd.Office
	}
	profile.UpdatedAt = now
	if err := s.profiles.SaveOfficerProfile(ctx, profile); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
	}
	return profile, nil
}

// ChangePassword replaces the caller's password after verifying the
// current one.
func (s *Service) ChangePassword(ctx context.Context, userID id.UserID, req models.ChangePasswordRequest) error {
	fields := map[string]any{}
	if err := validation.Merge(fields, req.Validate()); err != nil {
		return err
	}
	if req.NewPassword != "" && req.ConfirmPassword != "" && req.NewPassword != req.ConfirmPassword {
		fields["confirm_password"] = msgPasswordsMismatch
	}
	if len(fields) > 0 {
		return dErrors.Validation(fields)
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.hasher.Verify(req.CurrentPassword, user.PasswordHash); err != nil {
		return dErrors.FieldError("current_password", msgCurrentPassword)
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update password")
	}
	s.logAudit(ctx, audit.Event{
		Action: string(audit.EventPasswordChanged),
		UserID: userID,
	})
	return nil
}
