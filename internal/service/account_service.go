package service

import (
	"errors"
	"regexp"
	"time"

	"github.com/fellowshipfinder/backend/internal/identity"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/internal/repository"
	"github.com/fellowshipfinder/backend/internal/utils"
	"github.com/fellowshipfinder/backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrReservedUsername   = errors.New("numeric usernames are reserved for guests")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

type AccountService struct {
	userRepo      *repository.UserRepository
	wordRepo      *repository.ForbiddenWordRepository
	jwtSecret     string
	jwtExpiration time.Duration
	environment   string
}

func NewAccountService(userRepo *repository.UserRepository, wordRepo *repository.ForbiddenWordRepository, jwtSecret string, jwtExpiration time.Duration, environment string) *AccountService {
	return &AccountService{
		userRepo:      userRepo,
		wordRepo:      wordRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		environment:   environment,
	}
}

// IsProduction returns true if running in production environment
func (s *AccountService) IsProduction() bool {
	return s.environment == "production"
}

// Register creates an account. The username runs through the creation
// policy first: forbidden words abort registration, collisions fall
// back to a suffixed or generated name.
func (s *AccountService) Register(username, email, password string) (*models.User, string, error) {
	start := time.Now()

	logger.Log.Debug("Processing user registration",
		zap.String("username", username),
		zap.String("email", email),
	)

	if err := s.validateRegisterInput(username, email, password); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}

	existingUser, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if existingUser != nil {
		logger.Log.Warn("Email already exists",
			zap.String("email", email),
		)
		return nil, "", ErrEmailAlreadyExists
	}

	forbiddenWords, err := s.wordRepo.ListWords()
	if err != nil {
		return nil, "", err
	}

	finalUsername, err := identity.ValidateUsername(username, forbiddenWords, s.userRepo.UsernameExists)
	if err != nil {
		logger.Log.Warn("Username rejected",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password",
			zap.Error(err),
		)
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     finalUsername,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser, // Default role
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		logger.Log.Error("Failed to create user in database",
			zap.String("username", finalUsername),
			zap.Error(err),
		)
		return nil, "", err
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return nil, "", err
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", finalUsername),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

func (s *AccountService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found",
			zap.String("email", email),
		)
		return nil, "", ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("user_id", user.ID.String()),
		)
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return nil, "", err
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return user, token, nil
}

func (s *AccountService) GetProfile(username string) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *AccountService) validateRegisterInput(username, email, password string) error {
	// Empty username is allowed: the policy generates one.
	if username != "" {
		if len(username) < 3 {
			return errors.New("username must be at least 3 characters")
		}
		if len(username) > 50 {
			return errors.New("username must be at most 50 characters")
		}
		if identity.IsGuestUsername(username) {
			return ErrReservedUsername
		}
	}

	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	if len(email) > 100 {
		return errors.New("email too long")
	}

	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return errors.New("password too long")
	}

	return nil
}

// GetAllUsers returns all users (including banned ones). Admin surface.
func (s *AccountService) GetAllUsers() ([]*models.User, error) {
	return s.userRepo.GetAllUsers()
}

// BanUser soft deletes a user (sets DeletedAt)
func (s *AccountService) BanUser(userID, adminUsername, reason string) error {
	logger.Log.Info("Banning user",
		zap.String("user_id", userID),
		zap.String("admin", adminUsername),
		zap.String("reason", reason),
	)

	uid, err := uuid.Parse(userID)
	if err != nil {
		return errors.New("invalid user ID format")
	}

	return s.userRepo.SoftDeleteUser(uid)
}

// Forbidden-word management, admin only (the handler gates the route).

func (s *AccountService) ListForbiddenWords() ([]models.ForbiddenWord, error) {
	return s.wordRepo.ListAll()
}

func (s *AccountService) AddForbiddenWord(word string) (*models.ForbiddenWord, error) {
	if word == "" {
		return nil, errors.New("word is required")
	}
	fw := &models.ForbiddenWord{Word: word}
	if err := s.wordRepo.Add(fw); err != nil {
		return nil, err
	}
	return fw, nil
}

func (s *AccountService) RemoveForbiddenWord(id uuid.UUID) error {
	return s.wordRepo.Remove(id)
}
