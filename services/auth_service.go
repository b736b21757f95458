package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/ippeitanaka/orienteering-sub000/repositories"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	// LoginStaff verifies a staff name/password pair against the stored
	// bcrypt hash. There is no fallback account: every operator is a row.
	LoginStaff(ctx context.Context, name, password string) (*models.Staff, error)
	// LoginTeam resolves a team login code to its team.
	LoginTeam(ctx context.Context, teamCode string) (*models.Team, error)
}

type authService struct {
	staffRepo repositories.StaffRepository
	teamRepo  repositories.TeamRepository
}

func NewAuthService(staffRepo repositories.StaffRepository, teamRepo repositories.TeamRepository) AuthService {
	return &authService{
		staffRepo: staffRepo,
		teamRepo:  teamRepo,
	}
}

func (s *authService) LoginStaff(ctx context.Context, name, password string) (*models.Staff, error) {
	staff, err := s.staffRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrStaffNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find staff by name: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	staff.PasswordHash = ""
	return staff, nil
}

func (s *authService) LoginTeam(ctx context.Context, teamCode string) (*models.Team, error) {
	if teamCode == "" {
		return nil, ErrInvalidTeamCode
	}
	team, err := s.teamRepo.GetByCode(ctx, teamCode)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrInvalidTeamCode
		}
		return nil, fmt.Errorf("failed to find team by code: %w", err)
	}
	return team, nil
}
