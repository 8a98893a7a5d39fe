package adapters

import (
	"context"

	identitymodels "huduma/internal/identity/models"
	"huduma/internal/verification/models"
	id "huduma/pkg/domain"
)

// AccountDirectory is the part of the identity service the adapter needs.
type AccountDirectory interface {
	Citizens(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*identitymodels.Account, error)
	CountCitizens(ctx context.Context) (int, error)
}

// IdentityAdapter is an in-process adapter that resolves request owners
// through the identity service.
type IdentityAdapter struct {
	accounts AccountDirectory
}

func NewIdentityAdapter(accounts AccountDirectory) *IdentityAdapter {
	return &IdentityAdapter{accounts: accounts}
}

func (a *IdentityAdapter) Citizens(ctx context.Context, userIDs []id.UserID) (map[id.UserID]models.Citizen, error) {
	accounts, err := a.accounts.Citizens(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[id.UserID]models.Citizen, len(accounts))
	for uid, acct := range accounts {
		out[uid] = toCitizen(acct)
	}
	return out, nil
}

func (a *IdentityAdapter) CountCitizens(ctx context.Context) (int, error) {
	return a.accounts.CountCitizens(ctx)
}

func toCitizen(acct *identitymodels.Account) models.Citizen {
	c := models.Citizen{
		ID:       acct.ID,
		FullName: acct.FullName,
		Email:    acct.Email,
	}
	if p := acct.CitizenProfile; p != nil {
		age := p.Age
		c.HasProfile = true
		c.Phone = p.Phone
		c.Address = p.Address
		c.Gender = string(p.Gender)
		c.Age = &age
		c.NIDANumber = p.NIDANumber
	}
	return c
}
