package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/payment-portal/internal"
	sessionmodel "github.com/frahmantamala/payment-portal/internal/core/datamodel/session"
	"github.com/frahmantamala/payment-portal/internal/core/datamodel/staff"
	"github.com/frahmantamala/payment-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/payment-portal/internal/session"
)

// ErrPrincipalNotFound is returned by repositories when no row matches the
// unique key. The service never lets it reach a client.
var ErrPrincipalNotFound = errors.New("principal not found")

type Service struct {
	userRepo   UserRepository
	staffRepo  StaffRepository
	sessions   *session.Manager
	bcryptCost int
	logger     *slog.Logger
}

func NewService(userRepo UserRepository, staffRepo StaffRepository, sessions *session.Manager, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:   userRepo,
		staffRepo:  staffRepo,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// RegisterUser creates a portal user. The staff gate is enforced at the
// route layer; by the time this runs the caller is a verified staff session.
func (s *Service) RegisterUser(ctx context.Context, dto RegisterUserDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	_, err := s.userRepo.GetByIDNumber(ctx, dto.IDNumber)
	if err == nil {
		return internal.ErrDuplicateIDNumber
	}
	if !errors.Is(err, ErrPrincipalNotFound) {
		return internal.NewInternalError("failed to check existing user", err)
	}

	hash, err := s.hashPassword(dto.Password)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	newUser := &user.User{
		IDNumber:     dto.IDNumber,
		FirstName:    strings.TrimSpace(dto.FirstName),
		Surname:      strings.TrimSpace(dto.Surname),
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, internal.ErrDuplicateIDNumber) {
			return internal.ErrDuplicateIDNumber
		}
		return internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user registered", "id_number_suffix", suffix(dto.IDNumber))
	return nil
}

// RegisterStaff creates a staff account. No authorization gate guards this
// path; that mirrors the portal's observed behaviour.
func (s *Service) RegisterStaff(ctx context.Context, dto RegisterStaffDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))

	_, err := s.staffRepo.GetByEmail(ctx, email)
	if err == nil {
		return internal.ErrDuplicateEmail
	}
	if !errors.Is(err, ErrPrincipalNotFound) {
		return internal.NewInternalError("failed to check existing staff", err)
	}

	hash, err := s.hashPassword(dto.Password)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	newStaff := &staff.Staff{
		Email:        email,
		FirstName:    strings.TrimSpace(dto.FirstName),
		Surname:      strings.TrimSpace(dto.Surname),
		PasswordHash: hash,
	}
	if err := s.staffRepo.Create(ctx, newStaff); err != nil {
		if errors.Is(err, internal.ErrDuplicateEmail) {
			return internal.ErrDuplicateEmail
		}
		return internal.NewInternalError("failed to create staff", err)
	}

	s.logger.Info("staff registered")
	return nil
}

// LoginUser verifies user credentials and opens a session. Lookup failure
// and password mismatch collapse into one generic error.
func (s *Service) LoginUser(ctx context.Context, dto LoginDTO) (*sessionmodel.Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByIDNumber(ctx, dto.IDNumber)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, internal.NewInternalError("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	sess, err := s.sessions.Issue(ctx, u.IDNumber, internal.PrincipalUser)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue session", err)
	}
	return sess, nil
}

// LoginStaff verifies staff credentials and opens a staff session.
func (s *Service) LoginStaff(ctx context.Context, dto StaffLoginDTO) (*sessionmodel.Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	st, err := s.staffRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, internal.NewInternalError("failed to look up staff", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	sess, err := s.sessions.Issue(ctx, st.Email, internal.PrincipalStaff)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue session", err)
	}
	return sess, nil
}

// Logout destroys the session unconditionally.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return internal.NewInternalError("failed to destroy session", err)
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// suffix keeps identity numbers out of logs, leaving the last four digits
// for correlation.
func suffix(idNumber string) string {
	if len(idNumber) <= 4 {
		return idNumber
	}
	return idNumber[len(idNumber)-4:]
}
