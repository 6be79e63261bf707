package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/autopub/internal/model"
)

type UserRepository interface {
    GetByUsername(ctx context.Context, username string) (*model.User, error)
    Create(ctx context.Context, user *model.User) error
}

type userRepository struct {
    db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
    var u model.User
    if err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
        return nil, err
    }
    return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
    return r.db.WithContext(ctx).Create(user).Error
}
