package services

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campus-food-api/apperr"
	"campus-food-api/logger"
	"campus-food-api/middleware"
	"campus-food-api/models"
)

// AuthService handles local-password accounts and role administration.
type AuthService struct {
	db     *gorm.DB
	secret []byte
}

func NewAuthService(db *gorm.DB, secret []byte) *AuthService {
	return &AuthService{db: db, secret: secret}
}

// Register creates a local-password account. Self-registration always
// yields a student; any other role is granted later by an admin.
func (s *AuthService) Register(name, email, password string) (*models.User, string, error) {
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, "", apperr.New(apperr.KindInvalidRequest, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errors.Wrap(err, "hash password")
	}
	hashStr := string(hash)

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: &hashStr,
		Role:         models.RoleStudent,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", errors.Wrap(err, "create user")
	}

	token, err := middleware.GenerateToken(s.secret, &user)
	if err != nil {
		return nil, "", errors.Wrap(err, "generate token")
	}

	logger.Log.WithField("user_id", user.ID).Info("user registered")
	return &user, token, nil
}

// Login verifies a local password and issues a token. Unknown email,
// federated-only account and wrong password all fail identically.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", apperr.New(apperr.KindUnauthenticated, "invalid email or password")
	}
	if user.PasswordHash == nil {
		return nil, "", apperr.New(apperr.KindUnauthenticated, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.New(apperr.KindUnauthenticated, "invalid email or password")
	}

	token, err := middleware.GenerateToken(s.secret, &user)
	if err != nil {
		return nil, "", errors.Wrap(err, "generate token")
	}
	return &user, token, nil
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "user not found")
		}
		return nil, errors.Wrap(err, "load user")
	}
	return &user, nil
}

// ListUsers returns all users, optionally filtered by role. Admin use only.
func (s *AuthService) ListUsers(role string) ([]models.User, error) {
	query := s.db.Order("id asc")
	if role != "" {
		query = query.Where("role = ?", role)
	}
	var users []models.User
	err := query.Find(&users).Error
	return users, errors.Wrap(err, "list users")
}

// UpdateUserRole changes a user's role. The raw role string is validated
// against the closed set before it touches the store.
func (s *AuthService) UpdateUserRole(email, rawRole string) (*models.User, error) {
	role, ok := models.ParseRole(rawRole)
	if !ok {
		return nil, apperr.New(apperr.KindInvalidRequest, "invalid role; must be one of: student, vendor, delivery, admin")
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "user not found")
		}
		return nil, errors.Wrap(err, "load user")
	}

	user.Role = role
	if err := s.db.Save(&user).Error; err != nil {
		return nil, errors.Wrap(err, "update role")
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"role":    role,
	}).Info("user role changed")
	return &user, nil
}
