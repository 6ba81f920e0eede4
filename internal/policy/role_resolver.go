package policy

import (
	"context"
	"errors"

	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/internal/models"
	"gorm.io/gorm"
)

// RoleProfileResolver resolves a user id to the profile of the user's role.
type RoleProfileResolver struct {
	DB *gorm.DB
}

func NewRoleProfileResolver(db *gorm.DB) *RoleProfileResolver {
	return &RoleProfileResolver{DB: db}
}

// Resolve returns nil for unknown users and unknown roles.
func (r *RoleProfileResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Select("id", "role").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ProfileForRole(user.Role), nil
}
