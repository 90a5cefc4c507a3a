package repositories

import (
	"context"
	"errors"
	"time"

	"cardpay/internal/models"
	"cardpay/internal/repositories/cache"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const userCacheTTL = 10 * time.Minute

// UserCache is the slice of the redis cache the user repository needs.
type UserCache interface {
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

type userRepository struct {
	db    *gorm.DB
	cache UserCache
	log   *logrus.Entry
}

// NewUserRepository creates a new instance of UserRepository. userCache may
// be nil, in which case every read goes to the database.
func NewUserRepository(db *gorm.DB, userCache UserCache, log *logrus.Entry) UserRepository {
	return &userRepository{
		db:    db,
		cache: userCache,
		log:   log,
	}
}

func userKey(id uint) string {
	return cache.GenerateKey("user", "id", id)
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	ctx := context.Background()

	if r.cache != nil {
		var cached models.User
		found, err := r.cache.Get(ctx, userKey(id), &cached)
		if err != nil {
			r.log.WithError(err).WithField("user_id", id).Warn("user cache read failed")
		}
		if found {
			return &cached, nil
		}
	}

	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}

	if r.cache != nil {
		if err := r.cache.SetWithTTL(ctx, userKey(id), &user, userCacheTTL); err != nil {
			r.log.WithError(err).WithField("user_id", id).Warn("failed to cache user")
		}
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	result := r.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) RecordLogin(userID uint) error {
	now := time.Now()
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at":         now,
			"failed_login_attempts": 0,
		})
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	r.invalidate(userID)
	return nil
}

func (r *userRepository) RecordFailedLogin(userID uint) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("failed_login_attempts", gorm.Expr("failed_login_attempts + 1"))
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) IncrementTokenVersion(userID uint) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.invalidate(userID)
	return nil
}

func (r *userRepository) invalidate(userID uint) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(context.Background(), userKey(userID)); err != nil {
		r.log.WithError(err).WithField("user_id", userID).Warn("user cache invalidation failed")
	}
}
