package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/christa-jose1/student-migration-portal/internal/cache"
	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/internal/repository"
	"github.com/christa-jose1/student-migration-portal/pkg/jwt"
	"github.com/christa-jose1/student-migration-portal/pkg/log"
)

const directoryCacheKey = "users:directory"

// UserService manages local user records for externally authenticated
// identities, the chat directory, and the closed set of profile
// updates.
type UserService struct {
	users  repository.UserRepository
	tokens *jwt.Manager
	cache  cache.Cache
	group  singleflight.Group
}

// NewUserService creates a UserService. cache may be nil, in which case
// directory lookups always hit the database.
func NewUserService(users repository.UserRepository, tokens *jwt.Manager, c cache.Cache) *UserService {
	return &UserService{users: users, tokens: tokens, cache: c}
}

// Signup registers a provider identity locally and returns a session.
// Signing up an already registered uid behaves like a login.
func (s *UserService) Signup(ctx context.Context, req domain.SignupRequest) (*domain.Session, bool, error) {
	if existing, err := s.users.FindByUID(ctx, req.UID); err == nil {
		session, serr := s.session(existing)
		return session, false, serr
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, err
	}

	user := &domain.User{
		UID:             req.UID,
		Name:            strings.TrimSpace(req.FullName),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Role:            domain.RoleUser,
		CountriesChosen: []string{},
		Courses:         []string{},
		Universities:    []string{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, ErrUserExists
		}
		return nil, false, err
	}

	s.invalidateDirectory(ctx)

	l := log.Ctx(ctx)
	l.Info().Str(log.FieldUserID, user.ID).Str(log.FieldUsername, user.Name).Msg("user registered")

	session, err := s.session(user)
	return session, true, err
}

// CheckUser exchanges a provider id for a session on the local record.
func (s *UserService) CheckUser(ctx context.Context, uid string) (*domain.Session, error) {
	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

func (s *UserService) session(user *domain.User) (*domain.Session, error) {
	token, expiresAt, err := s.tokens.Generate(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, err
	}
	return &domain.Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Get returns one user by local id.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Directory lists every user except the caller, for starting chats.
// The full list is cached; concurrent misses share one database read.
func (s *UserService) Directory(ctx context.Context, callerID string) ([]domain.DirectoryEntry, error) {
	entries, err := s.directory(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.DirectoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != callerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *UserService) directory(ctx context.Context) ([]domain.DirectoryEntry, error) {
	if s.cache != nil {
		var cached []domain.DirectoryEntry
		err := s.cache.Get(ctx, directoryCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("directory cache read failed")
		}
	}

	result, err, _ := s.group.Do(directoryCacheKey, func() (interface{}, error) {
		entries, err := s.users.List(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, directoryCacheKey, entries); err != nil {
				l := log.Ctx(ctx)
				l.Warn().Err(err).Msg("directory cache write failed")
			}
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.DirectoryEntry), nil
}

func (s *UserService) invalidateDirectory(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, directoryCacheKey); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("directory cache invalidation failed")
	}
}

// PromoteToAdmin grants the admin role to the user with the given email.
func (s *UserService) PromoteToAdmin(ctx context.Context, email string) (*domain.User, error) {
	return s.setRole(ctx, email, domain.RoleAdmin)
}

// DemoteToUser revokes the admin role from the user with the given email.
func (s *UserService) DemoteToUser(ctx context.Context, email string) (*domain.User, error) {
	return s.setRole(ctx, email, domain.RoleUser)
}

func (s *UserService) setRole(ctx context.Context, email, role string) (*domain.User, error) {
	user, err := s.users.UpdateRole(ctx, strings.ToLower(strings.TrimSpace(email)), role)
	if err != nil {
		return nil, err
	}
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldUserID, user.ID).
		Str("role", role).
		Str(log.FieldLogType, log.LogTypeAudit).
		Msg("user role changed")
	return user, nil
}

// DeleteByUID removes the local record for a provider id.
func (s *UserService) DeleteByUID(ctx context.Context, uid string) error {
	if err := s.users.DeleteByUID(ctx, uid); err != nil {
		return err
	}
	s.invalidateDirectory(ctx)
	return nil
}

// ApplyCourse records a course application on the profile. The chosen
// country replaces any previous choice; courses and universities
// accumulate.
func (s *UserService) ApplyCourse(ctx context.Context, userID string, req domain.ApplyCourseRequest) (*domain.User, error) {
	return s.users.ApplyCourse(ctx, userID, req.Country, req.Course, req.Universities)
}

// RemoveCourse drops one course from the profile.
func (s *UserService) RemoveCourse(ctx context.Context, userID, course string) (*domain.User, error) {
	return s.users.RemoveCourse(ctx, userID, course)
}

// RemoveCountry drops one chosen country from the profile.
func (s *UserService) RemoveCountry(ctx context.Context, userID, country string) (*domain.User, error) {
	return s.users.RemoveCountry(ctx, userID, country)
}

// RemoveUniversity drops one university from the profile.
func (s *UserService) RemoveUniversity(ctx context.Context, userID, university string) (*domain.User, error) {
	return s.users.RemoveUniversity(ctx, userID, university)
}

// UpdatePhone sets the profile phone number.
func (s *UserService) UpdatePhone(ctx context.Context, userID, phone string) (*domain.User, error) {
	return s.users.UpdatePhone(ctx, userID, phone)
}

// UpdateEducation sets the profile education summary.
func (s *UserService) UpdateEducation(ctx context.Context, userID, education string) (*domain.User, error) {
	return s.users.UpdateEducation(ctx, userID, education)
}
