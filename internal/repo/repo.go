package repo

import (
	"errors"
	"strings"

	"github.com/Skotchmaster/shop_api/internal/models"
	"gorm.io/gorm"
)

var (
	ErrDuplicate        = errors.New("duplicate value")
	ErrInUse            = errors.New("record is referenced")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrRefreshInvalid   = errors.New("refresh token expired or revoked")
)

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// ListParams is a resolved page window plus an optional display-field filter.
type ListParams struct {
	Offset int
	Limit  int
	Search string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// whereContains adds a case-insensitive substring filter on column. Both
// sides are folded by the database so column and input use the same rules.
func whereContains(q *gorm.DB, column, search string) *gorm.DB {
	if strings.TrimSpace(search) == "" {
		return q
	}
	return q.Where("LOWER("+column+") LIKE LOWER(?) ESCAPE '\\'", likePattern(search))
}

func page[T any](q *gorm.DB, p ListParams) (int64, []T, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]T, 0, p.Limit)
	if err := q.Session(&gorm.Session{}).Order("id ASC").Offset(p.Offset).Limit(p.Limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
