package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todo/internal/model"

	"gorm.io/gorm"
)

// The single-tenant deployment is bootstrapped around one well-known user.
const (
	DefaultUserEmail = "default@todo.app"
	DefaultUserName  = "Default User"
)

type UserRepository struct {
	db *gorm.DB
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, name, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	GetOrCreateDefault(ctx context.Context) (*model.User, error)
}

var _ UserRepositoryInterface = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A user whose email is already taken is
// reported as (nil, nil), not as an error; the uniqueness check and the
// insert run inside one transaction.
func (r *UserRepository) Create(ctx context.Context, name, email string) (*model.User, error) {
	var created *model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.User
		err := tx.Where("email = ?", email).First(&existing).Error
		if err == nil {
			// Duplicate email, leave created nil
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user := model.User{
			Name:      name,
			Email:     email,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		created = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a user by id, returning (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by exact email match, returning (nil, nil) when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users in no particular order.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetOrCreateDefault looks up the sentinel default user and creates it
// on first use. Create reporting a duplicate right after the lookup
// said absent is a consistency violation, surfaced as ErrDefaultUserConflict.
func (r *UserRepository) GetOrCreateDefault(ctx context.Context) (*model.User, error) {
	user, err := r.GetByEmail(ctx, DefaultUserEmail)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	created, err := r.Create(ctx, DefaultUserName, DefaultUserEmail)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("%w: %s", ErrDefaultUserConflict, DefaultUserEmail)
	}
	return created, nil
}
