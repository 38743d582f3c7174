package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/arcbsr/studentadmission-backend/internal/metrics"
	"github.com/arcbsr/studentadmission-backend/internal/models"
	"github.com/arcbsr/studentadmission-backend/internal/utils"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateUserFields(ctx context.Context, userID primitive.ObjectID, fields bson.M) error
	UpdatePassword(ctx context.Context, userID primitive.ObjectID, hashedPassword string, resetRequired bool) error
	UpdateLastLogin(ctx context.Context, userID primitive.ObjectID) error
	DeleteUser(ctx context.Context, userID primitive.ObjectID) error
	GetByRole(ctx context.Context, role string) ([]*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type AuthService struct {
	userRepo  UserRepository
	agentRepo AgentRepository
	jwtUtil   *utils.JWTUtil
	google    *GoogleAuthService
	email     EmailService
	redis     *utils.RedisClient
	metrics   *metrics.Metrics
}

func NewAuthService(userRepo UserRepository, agentRepo AgentRepository, jwtUtil *utils.JWTUtil, google *GoogleAuthService, email EmailService, redis *utils.RedisClient, m *metrics.Metrics) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		agentRepo: agentRepo,
		jwtUtil:   jwtUtil,
		google:    google,
		email:     email,
		redis:     redis,
		metrics:   m,
	}
}

// Register creates a user account with an emailed temporary password. When
// the role is agent, an agent profile with a fresh referral key is created
// and linked to the account.
func (s *AuthService) Register(ctx context.Context, user *models.User) (*models.User, error) {
	existing, _ := s.userRepo.FindUserByEmail(ctx, user.Email)
	if existing != nil {
		return nil, models.ErrDuplicate
	}

	tempPass := utils.GenerateCode(10)
	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPass), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := &models.User{
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Email:         user.Email,
		Password:      string(hashed),
		Role:          user.Role,
		Permissions:   user.Permissions,
		IsActive:      true,
		ResetRequired: true,
	}
	if newUser.Role == "" {
		newUser.Role = models.RoleAgent
	}

	if newUser.Role == models.RoleAgent {
		agent, err := s.createAgentProfile(ctx, user)
		if err != nil {
			return nil, err
		}
		newUser.AgentID = agent.ID
	}

	createdUser, err := s.userRepo.CreateUser(ctx, newUser)
	if err != nil {
		s.rollbackAgentProfile(ctx, newUser.AgentID)
		return nil, err
	}

	if err := s.email.SendTemporaryPassword(user.Email, tempPass); err != nil {
		s.metrics.EmailsSent.WithLabelValues("error").Inc()
		_ = s.userRepo.DeleteUser(ctx, createdUser.ID)
		s.rollbackAgentProfile(ctx, newUser.AgentID)
		return nil, errors.New("failed to send email with temporary password")
	}
	s.metrics.EmailsSent.WithLabelValues("ok").Inc()

	return createdUser, nil
}

// rollbackAgentProfile removes the agent document created during a failed
// registration, so its referral key is not left attached to nobody.
func (s *AuthService) rollbackAgentProfile(ctx context.Context, agentID primitive.ObjectID) {
	if agentID.IsZero() {
		return
	}
	if err := s.agentRepo.DeleteAgent(ctx, agentID); err != nil {
		log.Printf("[AUTH] Failed to roll back agent profile %s: %v", agentID.Hex(), err)
	}
}

func (s *AuthService) createAgentProfile(ctx context.Context, user *models.User) (*models.Agent, error) {
	name := user.FirstName
	if user.LastName != "" {
		name = fmt.Sprintf("%s %s", user.FirstName, user.LastName)
	}

	agent := &models.Agent{
		Name:     name,
		Email:    user.Email,
		IsActive: true,
	}

	// Referral keys are unique-indexed; regenerate on collision.
	var created *models.Agent
	var err error
	for i := 0; i < 3; i++ {
		agent.ReferralKey = models.GenerateReferralKey()
		created, err = s.agentRepo.CreateAgent(ctx, agent)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, models.ErrDuplicate) {
			return nil, err
		}
	}
	return nil, err
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		log.Printf("[AUTH] User not found: %s", email)
		s.metrics.Logins.WithLabelValues("failed").Inc()
		return "", models.ErrCredentials
	}

	if !user.IsActive {
		log.Printf("[AUTH] Inactive account: %s", email)
		s.metrics.Logins.WithLabelValues("inactive").Inc()
		return "", models.ErrInactive
	}

	if err := user.ComparePassword(password); err != nil {
		s.metrics.Logins.WithLabelValues("failed").Inc()
		return "", models.ErrCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("[AUTH] Failed to update last login for %s: %v", email, err)
	}

	s.metrics.Logins.WithLabelValues("ok").Inc()
	return s.jwtUtil.GenerateToken(user.ID.Hex(), user.Role, user.ResetRequired)
}

func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (string, error) {
	payload, err := s.google.VerifyGoogleToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return "", models.ErrCredentials
	}

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		// Google sign-in does not self-provision accounts; agent and
		// admin users are created from the admin dashboard.
		return "", models.ErrNotFound
	}
	if !user.IsActive {
		return "", models.ErrInactive
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("[AUTH] Failed to update last login for %s: %v", email, err)
	}

	return s.jwtUtil.GenerateToken(user.ID.Hex(), user.Role, user.ResetRequired)
}

func (s *AuthService) Validate(token string) (*jwt.Token, error) {
	return s.jwtUtil.ValidateToken(token)
}

func (s *AuthService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	cacheKey := fmt.Sprintf("user_profile:%s", userID.Hex())

	var cachedUser models.User
	if err := s.redis.Get(ctx, cacheKey, &cachedUser); err == nil {
		return &cachedUser, nil
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.redis.Set(ctx, cacheKey, user, 5*time.Minute); err != nil {
		log.Printf("[AUTH] Failed to cache user profile: %v", err)
	}

	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, fields map[string]interface{}) error {
	updateFields := bson.M{}
	for k, v := range fields {
		if v != nil {
			updateFields[k] = v
		}
	}
	if len(updateFields) == 0 {
		return nil
	}

	if err := s.userRepo.UpdateUserFields(ctx, userID, updateFields); err != nil {
		return err
	}

	_ = s.redis.Delete(ctx, fmt.Sprintf("user_profile:%s", userID.Hex()))
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.ErrNotFound
	}

	if err := user.ComparePassword(oldPassword); err != nil {
		return errors.New("invalid old password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hashed), false)
}

func (s *AuthService) ResendTemporaryPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return models.ErrNotFound
	}

	tempPass := utils.GenerateCode(10)
	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPass), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashed), true); err != nil {
		return err
	}

	if err := s.email.SendTemporaryPassword(email, tempPass); err != nil {
		s.metrics.EmailsSent.WithLabelValues("error").Inc()
		return err
	}
	s.metrics.EmailsSent.WithLabelValues("ok").Inc()
	return nil
}

func (s *AuthService) SetInitialPassword(ctx context.Context, userID primitive.ObjectID, tempPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.ErrNotFound
	}

	if err := user.ComparePassword(tempPassword); err != nil {
		return errors.New("invalid temporary password")
	}

	if !user.ResetRequired {
		return errors.New("this action is only allowed for accounts requiring password reset")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hashed), false)
}

// Logout blacklists the token's jti for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	token, err := s.jwtUtil.ValidateToken(tokenString)
	if err != nil || !token.Valid {
		return errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid token claims")
	}

	jti, ok := claims["jti"].(string)
	if !ok {
		return errors.New("missing jti in token")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return errors.New("invalid token expiration")
	}

	ttl := time.Until(time.Unix(int64(exp), 0))
	return s.redis.Set(ctx, fmt.Sprintf("blacklist:%s", jti), true, ttl)
}

func (s *AuthService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.GetAllUsers(ctx)
}

func (s *AuthService) GetByRole(ctx context.Context, role string) ([]*models.User, error) {
	return s.userRepo.GetByRole(ctx, role)
}

func (s *AuthService) GetTotalUsers(ctx context.Context) (int64, error) {
	return s.userRepo.CountUsers(ctx)
}

// SetUserActive toggles account access; the profile cache is dropped so the
// change applies immediately.
func (s *AuthService) SetUserActive(ctx context.Context, userID primitive.ObjectID, isActive bool) error {
	if err := s.userRepo.UpdateUserFields(ctx, userID, bson.M{"is_active": isActive}); err != nil {
		return err
	}
	_ = s.redis.Delete(ctx, fmt.Sprintf("user_profile:%s", userID.Hex()))
	return nil
}

func (s *AuthService) UpdatePermissions(ctx context.Context, userID primitive.ObjectID, permissions map[string]bool) error {
	if err := s.userRepo.UpdateUserFields(ctx, userID, bson.M{"permissions": permissions}); err != nil {
		return err
	}
	_ = s.redis.Delete(ctx, fmt.Sprintf("user_profile:%s", userID.Hex()))
	return nil
}
