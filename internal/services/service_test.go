package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/verzia/verzia/internal/models"
	"github.com/verzia/verzia/internal/repository"
	"github.com/verzia/verzia/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Photo{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
		&models.SiteInfo{},
	))
	return db
}

type testEnv struct {
	db           *gorm.DB
	users        *UserService
	likes        *LikeService
	comments     *CommentService
	notification *NotificationService
	siteInfo     *SiteInfoService

	userRepo         *repository.UserRepository
	followRepo       *repository.FollowRepository
	photoRepo        *repository.PhotoRepository
	likeRepo         *repository.LikeRepository
	commentRepo      *repository.CommentRepository
	notificationRepo *repository.NotificationRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	log := logger.NewLogger()

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	siteInfoRepo := repository.NewSiteInfoRepository(db)

	return &testEnv{
		db:           db,
		users:        NewUserService(db, userRepo, followRepo, photoRepo, nil, log),
		likes:        NewLikeService(db, likeRepo, photoRepo, userRepo, nil, log),
		comments:     NewCommentService(db, commentRepo, photoRepo, userRepo, nil, log, 20),
		notification: NewNotificationService(notificationRepo, log),
		siteInfo:     NewSiteInfoService(siteInfoRepo, userRepo),

		userRepo:         userRepo,
		followRepo:       followRepo,
		photoRepo:        photoRepo,
		likeRepo:         likeRepo,
		commentRepo:      commentRepo,
		notificationRepo: notificationRepo,
	}
}

func (e *testEnv) register(t *testing.T, username, email, password string) *models.User {
	t.Helper()

	user, err := e.users.Register(context.Background(), &RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) addPhoto(t *testing.T, photo *models.Photo) *models.Photo {
	t.Helper()

	require.NoError(t, e.photoRepo.Create(context.Background(), photo))
	return photo
}
