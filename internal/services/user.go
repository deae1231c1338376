package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/verzia/verzia/internal/models"
	"github.com/verzia/verzia/internal/repository"
	"github.com/verzia/verzia/pkg/logger"
	"github.com/verzia/verzia/pkg/queue"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
	photoRepo  *repository.PhotoRepository
	producer   *queue.KafkaProducer
	logger     *logger.Logger
}

func NewUserService(db *gorm.DB, userRepo *repository.UserRepository, followRepo *repository.FollowRepository, photoRepo *repository.PhotoRepository, producer *queue.KafkaProducer, logger *logger.Logger) *UserService {
	return &UserService{
		db:         db,
		userRepo:   userRepo,
		followRepo: followRepo,
		photoRepo:  photoRepo,
		producer:   producer,
		logger:     logger,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

type LoginRequest struct {
	// Identifier matches either username or email.
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Bio    *string `json:"bio" binding:"omitempty,max=500"`
	Avatar *string `json:"avatar"`
}

type ChangeCredentialsRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewUsername     string `json:"new_username" binding:"omitempty,min=3,max=30"`
	NewPassword     string `json:"new_password" binding:"omitempty,min=6,max=50"`
}

// Profile is a user together with counts derived from the relationship
// tables; nothing is read from stored counters.
type Profile struct {
	User      *models.User `json:"user"`
	Followers int64        `json:"followers"`
	Following int64        `json:"following"`
	Photos    int64        `json:"photos"`
}

func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	existing, err = s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race against another registration with the same unique
		// field.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publish(ctx, user.ID.String(), queue.EventUserRegistered, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	s.logger.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Authenticate resolves the identifier as username or email and fails with
// the same error kind regardless of which check missed.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		user, err = s.userRepo.GetByEmail(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in")
	return user, nil
}

func (s *UserService) ChangeCredentials(ctx context.Context, userID uuid.UUID, req *ChangeCredentialsRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return nil, ErrWrongPassword
	}

	if req.NewUsername != "" && req.NewUsername != user.Username {
		existing, err := s.userRepo.GetByUsername(ctx, req.NewUsername)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if existing != nil {
			return nil, ErrDuplicateUsername
		}
		user.Username = req.NewUsername
	}

	if req.NewPassword != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashedPassword)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("Credentials changed")
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	photos, err := s.photoRepo.CountByOwnerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{User: user, Followers: followers, Following: following, Photos: photos}, nil
}

// Follow inserts the edge and the follow notification in one transaction.
// Following an already-followed user is a no-op, as is losing the insert
// race to a concurrent duplicate request.
func (s *UserService) Follow(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfFollow
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to get actor: %w", err)
	}
	if actor == nil {
		return ErrNotFound
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to get target: %w", err)
	}
	if target == nil {
		return ErrNotFound
	}

	existing, err := s.followRepo.Get(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("failed to check follow status: %w", err)
	}
	if existing != nil {
		return nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		follow := &models.Follow{FollowerID: actorID, FollowedID: targetID}
		if err := repository.NewFollowRepository(tx).Create(ctx, follow); err != nil {
			return err
		}
		notification := &models.Notification{
			RecipientID:    targetID,
			SenderUsername: actor.Username,
			Kind:           models.NotificationFollow,
			Message:        fmt.Sprintf("%s started following you", actor.Username),
			CreatedAt:      time.Now(),
		}
		return repository.NewNotificationRepository(tx).Create(ctx, notification)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to follow: %w", err)
	}

	s.publish(ctx, actorID.String(), queue.EventFollowCreated, map[string]interface{}{
		"follower_id": actorID,
		"followed_id": targetID,
	})

	s.logger.WithFields(map[string]interface{}{
		"follower_id": actorID,
		"followed_id": targetID,
	}).Info("Follow created")
	return nil
}

// Unfollow is idempotent; removing a missing edge is not an error.
func (s *UserService) Unfollow(ctx context.Context, actorID, targetID uuid.UUID) error {
	removed, err := s.followRepo.Delete(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	if removed == 0 {
		return nil
	}

	s.publish(ctx, actorID.String(), queue.EventFollowDeleted, map[string]interface{}{
		"follower_id": actorID,
		"followed_id": targetID,
	})
	return nil
}

func (s *UserService) IsFollowing(ctx context.Context, actorID, targetID uuid.UUID) (bool, error) {
	return s.followRepo.IsFollowing(ctx, actorID, targetID)
}

func (s *UserService) GetFollowers(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.User, error) {
	return s.followRepo.GetFollowers(ctx, userID, offset, limit)
}

func (s *UserService) GetFollowing(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.User, error) {
	return s.followRepo.GetFollowing(ctx, userID, offset, limit)
}

func (s *UserService) Search(ctx context.Context, query string, offset, limit int) ([]*models.User, error) {
	return s.userRepo.Search(ctx, query, offset, limit)
}

func (s *UserService) publish(ctx context.Context, key string, eventType queue.EventType, data map[string]interface{}) {
	if s.producer == nil {
		return
	}
	event := queue.Event{Type: eventType, Timestamp: time.Now(), Data: data}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish activity event")
	}
}
