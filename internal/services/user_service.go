package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/club-backoffice/internal/constants"
	"github.com/yukikurage/club-backoffice/internal/models"
	"github.com/yukikurage/club-backoffice/internal/repository"
	"github.com/yukikurage/club-backoffice/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken          = errors.New("email already exists")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidRole         = errors.New("invalid role")
	ErrLastAdmin           = errors.New("cannot remove the last admin")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own account")
	ErrNameRequired        = errors.New("name is required")
	ErrLinkedMemberMissing = errors.New("linked member not found")
)

// UserService handles account administration.
type UserService struct {
	userRepo   repository.UserRepository
	memberRepo repository.MemberRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, memberRepo repository.MemberRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		memberRepo: memberRepo,
	}
}

// CreateUserInput holds the fields for a new account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	MemberID *uint64
}

// UpdateUserInput holds optional changes to an account.
type UpdateUserInput struct {
	Name        *string
	Email       *string
	Password    *string
	Role        *models.Role
	MemberID    *uint64
	ClearMember bool
}

// ListUsers returns accounts, optionally filtered by role.
func (s *UserService) ListUsers(role *models.Role, params utils.PaginationParams) ([]models.User, int64, error) {
	if role != nil && !role.Valid() {
		return nil, 0, ErrInvalidRole
	}
	users, total, err := s.userRepo.List(repository.UserFilter{
		Role:       role,
		Pagination: params,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Directory returns every account, used to pick message recipients and coaches.
func (s *UserService) Directory(role *models.Role) ([]models.User, error) {
	users, _, err := s.ListUsers(role, utils.PaginationParams{})
	return users, err
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUser creates an account. When no password is given a temporary one
// is generated and returned so it can be handed to the user once.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, "", ErrNameRequired
	}
	email, err := requireEmail(input.Email)
	if err != nil {
		return nil, "", err
	}
	if !input.Role.Valid() {
		return nil, "", ErrInvalidRole
	}
	if err := s.ensureEmailFree(email, 0); err != nil {
		return nil, "", err
	}
	if err := s.ensureMemberExists(input.MemberID); err != nil {
		return nil, "", err
	}

	password := input.Password
	var temporary string
	if password == "" {
		temporary, err = utils.GenerateTemporaryPassword(constants.TemporaryPasswordLength)
		if err != nil {
			return nil, "", err
		}
		password = temporary
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		MemberID:     input.MemberID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	return user, temporary, nil
}

// UpdateUser applies changes to an account.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		user.Name = name
	}

	if input.Email != nil {
		email, err := requireEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		if err := s.ensureEmailFree(email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
	}

	if input.Role != nil && *input.Role != user.Role {
		if !input.Role.Valid() {
			return nil, ErrInvalidRole
		}
		if user.Role == models.RoleAdmin {
			if err := s.ensureNotLastAdmin(); err != nil {
				return nil, err
			}
		}
		user.Role = *input.Role
	}

	if input.ClearMember {
		user.MemberID = nil
		user.Member = nil
	} else if input.MemberID != nil {
		if err := s.ensureMemberExists(input.MemberID); err != nil {
			return nil, err
		}
		user.MemberID = input.MemberID
		user.Member = nil
	}

	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes an account and everything that references it.
func (s *UserService) DeleteUser(actorID, id uint64) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	if user.Role == models.RoleAdmin {
		if err := s.ensureNotLastAdmin(); err != nil {
			return err
		}
	}
	if actorID == id {
		return ErrCannotDeleteSelf
	}

	if err := s.userRepo.DeleteWithDependents(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *UserService) ensureNotLastAdmin() error {
	count, err := s.userRepo.CountByRole(models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func (s *UserService) ensureEmailFree(email string, ownerID uint64) error {
	existing, err := s.userRepo.FindByEmail(email)
	if err == nil {
		if existing.ID != ownerID {
			return ErrEmailTaken
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

func (s *UserService) ensureMemberExists(memberID *uint64) error {
	if memberID == nil {
		return nil
	}
	if _, err := s.memberRepo.FindByID(*memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkedMemberMissing
		}
		return fmt.Errorf("failed to find member: %w", err)
	}
	return nil
}

// requireEmail normalizes an address whose format was checked at binding.
func requireEmail(raw string) (string, error) {
	email := normalizeEmail(raw)
	if email == "" {
		return "", ErrInvalidEmail
	}
	return email, nil
}
