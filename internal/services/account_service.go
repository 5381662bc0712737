package services

import (
	"context"

	"github.com/gemtrack/gemtrack/internal/models"
	pgrepo "github.com/gemtrack/gemtrack/internal/repositories/postgres"
	"github.com/gemtrack/gemtrack/internal/utils"
)

// Profile is the settings-page payload: the signed-in user plus their company.
type Profile struct {
	User    models.User    `json:"user"`
	Company models.Company `json:"company"`
}

type AccountService interface {
	Me(ctx context.Context, userID string) (*Profile, error)
	CompanyID(ctx context.Context, userID string) (string, error)
	UpdateRecipients(ctx context.Context, userID string, recipients []string) (*models.Company, error)
}

type accountService struct {
	users     pgrepo.UserRepository
	companies pgrepo.CompanyRepository
}

func NewAccountService(users pgrepo.UserRepository, companies pgrepo.CompanyRepository) AccountService {
	return &accountService{users: users, companies: companies}
}

func (s *accountService) Me(ctx context.Context, userID string) (*Profile, error) {
	const op = "AccountService.Me"

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == utils.ErrNotFound {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to fetch user", err)
	}

	co, err := s.companies.GetByID(ctx, u.CompanyID)
	if err != nil {
		if err == utils.ErrNotFound {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to fetch company", err)
	}

	return &Profile{User: *u, Company: *co}, nil
}

func (s *accountService) CompanyID(ctx context.Context, userID string) (string, error) {
	const op = "AccountService.CompanyID"

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == utils.ErrNotFound {
			return "", utils.E(utils.CodeUnauthorized, op, "user not found", nil)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to fetch user", err)
	}
	return u.CompanyID, nil
}

func (s *accountService) UpdateRecipients(ctx context.Context, userID string, recipients []string) (*models.Company, error) {
	const op = "AccountService.UpdateRecipients"

	companyID, err := s.CompanyID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.companies.UpdateRecipients(ctx, companyID, recipients); err != nil {
		if err == utils.ErrNotFound {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update recipients", err)
	}
	return s.companies.GetByID(ctx, companyID)
}
