package service

import (
	"context"

	"assetshare/internal/auth/validator"
	"assetshare/internal/cache"
	"assetshare/pkg/client"
	"assetshare/pkg/config"
	apperrors "assetshare/pkg/errors"
	"assetshare/pkg/model"
	"assetshare/pkg/sanitizer"
	"assetshare/pkg/validation"
)

type AuthService interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, error)
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, update *model.ProfileUpdate) (*model.User, error)
}

// SessionManager is the session state the service drives.
type SessionManager interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, error)
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) *model.User
}

type ProfileAPI interface {
	UpdateProfile(ctx context.Context, update *model.ProfileUpdate) (*model.User, error)
}

type authService struct {
	session     SessionManager
	profiles    ProfileAPI
	store       cache.Store
	invalidator *cache.Invalidator
	validator   *validator.AuthValidator
	cfg         *config.Config
}

func NewAuthService(
	session SessionManager,
	profiles ProfileAPI,
	store cache.Store,
	invalidator *cache.Invalidator,
	validator *validator.AuthValidator,
	cfg *config.Config,
) AuthService {
	return &authService{
		session:     session,
		profiles:    profiles,
		store:       store,
		invalidator: invalidator,
		validator:   validator,
		cfg:         cfg,
	}
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	req.Username = sanitizer.NormalizeText(req.Username)
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, validation.ToAppError(err)
	}

	user, err := s.session.Login(ctx, req)
	if err != nil {
		s.cfg.Log.Warn("Login failed", "username", req.Username, "error", err)
		return nil, client.ToAppError(err)
	}
	return user, nil
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	s.applyDefaults(req)
	s.sanitize(req)
	if err := s.validator.ValidateRegister(req); err != nil {
		return nil, validation.ToAppError(err)
	}

	user, err := s.session.Register(ctx, req)
	if err != nil {
		s.cfg.Log.Warn("Registration failed", "email", req.Email, "error", err)
		return nil, client.ToAppError(err)
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.session.Logout(ctx); err != nil {
		s.cfg.Log.Error("Logout failed", "error", err)
		return client.ToAppError(err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context) (*model.User, error) {
	user := s.session.CurrentUser(ctx)
	if user == nil {
		return nil, apperrors.Unauthorized("Please sign in to continue")
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, update *model.ProfileUpdate) (*model.User, error) {
	s.sanitizeProfile(update)
	if err := s.validator.ValidateProfile(update); err != nil {
		return nil, validation.ToAppError(err)
	}

	user, err := s.profiles.UpdateProfile(ctx, update)
	if err != nil {
		s.cfg.Log.Error("Failed to update profile", "error", err)
		return nil, client.ToAppError(err)
	}

	if err := s.invalidator.Apply(ctx, cache.UpdateProfile, user.ID); err != nil {
		s.cfg.Log.Warn("Cache invalidation incomplete after profile update", "user_id", user.ID, "error", err)
	}
	cache.Seed(ctx, s.store, s.cfg.Log, cache.For(cache.CurrentUser), user)

	s.cfg.Log.Info("Profile updated successfully", "user_id", user.ID)
	return user, nil
}

func (s *authService) applyDefaults(req *model.RegisterRequest) {
	if req.Role == "" {
		req.Role = model.RoleBusinessUser
	}
}

func (s *authService) sanitize(req *model.RegisterRequest) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.FirstName = sanitizer.NormalizeText(req.FirstName)
	req.LastName = sanitizer.NormalizeText(req.LastName)
	req.BusinessName = sanitizer.NormalizeText(req.BusinessName)
	req.Location = sanitizer.NormalizeText(req.Location)
	req.ProductionFocus = sanitizer.NormalizeText(req.ProductionFocus)
	if req.Phone != "" {
		req.Phone = sanitizer.NormalizePhoneOrKeep(req.Phone)
	}
	req.Certifications = sanitizer.NormalizeTags(req.Certifications)
	req.Needs = sanitizer.NormalizeTags(req.Needs)
}

func (s *authService) sanitizeProfile(update *model.ProfileUpdate) {
	update.BusinessName = sanitizer.NormalizeTextPtr(update.BusinessName)
	update.Location = sanitizer.NormalizeTextPtr(update.Location)
	update.ProductionFocus = sanitizer.NormalizeTextPtr(update.ProductionFocus)
	if update.Phone != nil {
		phone := sanitizer.NormalizePhoneOrKeep(*update.Phone)
		update.Phone = &phone
	}
	update.Certifications = sanitizer.NormalizeTags(update.Certifications)
	update.Needs = sanitizer.NormalizeTags(update.Needs)
}
