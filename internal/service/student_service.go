package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/repository"
	"github.com/jackc/pgx/v5"
)

// ErrStudentNotFound means no student matches the lookup.
var ErrStudentNotFound = errors.New("student not found")

// StudentService handles student account operations.
type StudentService struct {
	studentRepo *repository.StudentRepository
	authSvc     *AuthService
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, authSvc *AuthService) *StudentService {
	return &StudentService{studentRepo: studentRepo, authSvc: authSvc}
}

// Login authenticates a student by registration code and issues a JWT.
// A missing student and a wrong password are indistinguishable to the caller.
func (s *StudentService) Login(ctx context.Context, req *model.StudentLoginRequest) (*model.StudentLoginResponse, error) {
	student, err := s.studentRepo.GetByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get student: %w", err)
	}

	if err := s.authSvc.CheckPassword(student.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.authSvc.GenerateStudentToken(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	return &model.StudentLoginResponse{Token: token, Student: *student}, nil
}

// Get retrieves a student by ID.
func (s *StudentService) Get(ctx context.Context, id int) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return student, nil
}

// ResetSession clears a student's single-device session so they can log in
// again from a new device.
func (s *StudentService) ResetSession(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.authSvc.ResetStudentSession(ctx, id)
}

// Create registers a student with a hashed password.
func (s *StudentService) Create(ctx context.Context, code, name, password string) (*model.Student, error) {
	hash, err := s.authSvc.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	student := &model.Student{Code: code, Name: name, PasswordHash: hash}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return student, nil
}
