package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"campus-food-api/apperr"
	"campus-food-api/logger"
	"campus-food-api/middleware"
	"campus-food-api/models"
)

// IdentityAssertion is the subset of a verified Google ID token the login
// flow needs.
type IdentityAssertion struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// TokenVerifier checks an external identity assertion. Production wraps
// Google's verification service; tests inject a fake.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*IdentityAssertion, error)
}

type googleVerifier struct {
	clientID string
}

// NewGoogleVerifier returns a TokenVerifier backed by Google's public
// token verification endpoint.
func NewGoogleVerifier(clientID string) TokenVerifier {
	return &googleVerifier{clientID: clientID}
}

func (g *googleVerifier) Verify(ctx context.Context, rawToken string) (*IdentityAssertion, error) {
	payload, err := idtoken.Validate(ctx, rawToken, g.clientID)
	if err != nil {
		return nil, errors.Wrap(err, "validate google token")
	}

	assertion := &IdentityAssertion{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		assertion.Email = email
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		assertion.EmailVerified = verified
	}
	if name, ok := payload.Claims["name"].(string); ok {
		assertion.Name = name
	}
	return assertion, nil
}

// GoogleAuthService logs users in via Google federation scoped to a
// college. Local accounts are keyed by Google's immutable subject id, not
// by email, so an email change upstream does not orphan the account.
type GoogleAuthService struct {
	db       *gorm.DB
	secret   []byte
	verifier TokenVerifier
}

func NewGoogleAuthService(db *gorm.DB, secret []byte, verifier TokenVerifier) *GoogleAuthService {
	return &GoogleAuthService{db: db, secret: secret, verifier: verifier}
}

// Login verifies the assertion, applies the college's email-domain policy,
// resolves or creates the local user and issues a credential.
func (s *GoogleAuthService) Login(ctx context.Context, rawToken string, collegeID uint) (*models.User, string, error) {
	assertion, err := s.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindUpstreamVerification, err, "google token could not be verified")
	}
	if assertion.Email == "" || !assertion.EmailVerified {
		return nil, "", apperr.New(apperr.KindUpstreamVerification, "email not verified by google")
	}

	var college models.College
	if err := s.db.First(&college, collegeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.New(apperr.KindNotFound, "college not found")
		}
		return nil, "", errors.Wrap(err, "load college")
	}

	if !domainAllowed(assertion.Email, &college) {
		return nil, "", apperr.New(apperr.KindInvalidRequest, "email domain not allowed for this college")
	}

	user, err := s.resolveUser(assertion)
	if err != nil {
		return nil, "", err
	}

	token, err := middleware.GenerateToken(s.secret, user)
	if err != nil {
		return nil, "", errors.Wrap(err, "generate token")
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id":    user.ID,
		"college_id": college.ID,
	}).Info("google login")
	return user, token, nil
}

func domainAllowed(email string, college *models.College) bool {
	if college.AllowExternalEmails {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := email[at+1:]
	for _, d := range strings.Split(college.AllowedDomains, ",") {
		if strings.EqualFold(strings.TrimSpace(d), domain) {
			return true
		}
	}
	return false
}

// resolveUser finds the account by Google subject, backfills the subject
// onto a pre-existing local account with the same email, or creates a new
// student account.
func (s *GoogleAuthService) resolveUser(assertion *IdentityAssertion) (*models.User, error) {
	var user models.User
	err := s.db.Where("google_sub = ?", assertion.Subject).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "load user by subject")
	}

	err = s.db.Where("email = ?", assertion.Email).First(&user).Error
	if err == nil {
		user.GoogleSub = &assertion.Subject
		if err := s.db.Save(&user).Error; err != nil {
			return nil, errors.Wrap(err, "link google subject")
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "load user by email")
	}

	name := assertion.Name
	if name == "" {
		name = "User"
	}
	user = models.User{
		Name:      name,
		Email:     assertion.Email,
		GoogleSub: &assertion.Subject,
		Role:      models.RoleStudent,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "create federated user")
	}
	return &user, nil
}
