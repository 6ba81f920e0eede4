package services

import (
	"context"
	"strings"

	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/models"
	"github.com/diewo77/go-society/internal/repositories"
	"gorm.io/gorm"
)

// Authorizer is satisfied by policy.AuthGate.
type Authorizer interface {
	Check(ctx context.Context, userID uint, action gate.Action, resourceType string, resource any) error
}

// visibleSocieties returns the ids of the societies userID owns or works
// for, or NotFound when there are none.
func visibleSocieties(ctx context.Context, db *gorm.DB, userID uint) ([]uint, error) {
	var ids []uint
	err := db.WithContext(ctx).Model(&models.Society{}).
		Where("id IN (?)", repositories.SocietyScope(db, userID)).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, apperr.Wrap(err, "failed to load societies")
	}
	if len(ids) == 0 {
		return nil, apperr.NotFound("society")
	}
	return ids, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lowercase LIKE pattern matching q anywhere.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}
