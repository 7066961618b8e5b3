package repository

import (
	"github.com/vshalt/chirp/internal/consts"
	"github.com/vshalt/chirp/internal/model"
)

type UserStore interface {
	FindByID(id uint) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Create(user *model.User) error
	Save(user *model.User) error
	UpdatePasswordByID(userID uint, hashedPassword string) error
	UpdateLastSeenByID(userID uint) error
	FieldExists(field consts.UserField, value string, excludeUserID *uint) (bool, error)
	DeleteCascade(userID uint) error
	CountAll() (int64, error)
}

type RoleStore interface {
	FindByID(id uint) (*model.Role, error)
	FindByName(name string) (*model.Role, error)
	FindDefault() (*model.Role, error)
}
