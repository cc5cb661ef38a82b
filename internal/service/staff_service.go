package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/repository"
	"github.com/jackc/pgx/v5"
)

// StaffService handles proctor and administrator accounts.
type StaffService struct {
	staffRepo *repository.StaffRepository
	authSvc   *AuthService
}

// NewStaffService creates a new StaffService.
func NewStaffService(staffRepo *repository.StaffRepository, authSvc *AuthService) *StaffService {
	return &StaffService{staffRepo: staffRepo, authSvc: authSvc}
}

// Login authenticates a staff user by email and issues a role-bearing JWT.
func (s *StaffService) Login(ctx context.Context, req *model.StaffLoginRequest) (*model.StaffLoginResponse, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get staff user: %w", err)
	}

	if err := s.authSvc.CheckPassword(staff.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.authSvc.GenerateStaffToken(staff.ID, staff.Role)
	if err != nil {
		return nil, err
	}

	return &model.StaffLoginResponse{Token: token, Staff: *staff}, nil
}

// Create registers a staff user with a hashed password. Idempotent on email,
// so the CLI can be re-run to rotate a password or role.
func (s *StaffService) Create(ctx context.Context, name, email, password string, role model.StaffRole) (*model.StaffUser, error) {
	hash, err := s.authSvc.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	staff := &model.StaffUser{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, fmt.Errorf("create staff user: %w", err)
	}
	return staff, nil
}
