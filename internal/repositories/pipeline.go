package repositories

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vidtube/internal/models"
)

// sortField maps a public sort key onto a qualified column.
type sortField map[string]string

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// paginate applies skip/limit. Callers validate page and limit, this only guards zero values.
func paginate(opts models.ListOptions) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		limit := opts.Limit
		if limit < 1 {
			limit = models.DefaultLimit
		}
		page := opts.Page
		if page < 1 {
			page = models.DefaultPage
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

// orderBy sorts by an allow-listed field in the requested direction, or by
// defaultColumn ascending when the field is missing or not allowed. Ties are
// broken by the id of defaultColumn's table so pages stay stable.
func orderBy(opts models.ListOptions, allowed sortField, defaultColumn string) func(*gorm.DB) *gorm.DB {
	tiebreak := "id ASC"
	if table, _, ok := strings.Cut(defaultColumn, "."); ok {
		tiebreak = table + ".id ASC"
	}
	return func(db *gorm.DB) *gorm.DB {
		column, ok := allowed[opts.SortBy]
		switch {
		case !ok:
			db = db.Order(defaultColumn + " ASC")
		case opts.Descending():
			db = db.Order(column + " DESC")
		default:
			db = db.Order(column + " ASC")
		}
		return db.Order(tiebreak)
	}
}

// containsAny matches query case-insensitively against any of the given columns.
func containsAny(query string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		query = strings.TrimSpace(query)
		if query == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// ownerColumns projects the joined users row onto the owner profile fields of a row struct.
const ownerColumns = `users.id AS owner_id, users.username AS owner_username,
	users.full_name AS owner_full_name, users.avatar AS owner_avatar`

const joinVideoOwner = "JOIN users ON users.id = videos.owner_id"

// OwnerRow holds the joined owner columns of a scan target. GORM skips unexported embedded structs.
type OwnerRow struct {
	OwnerID       uuid.UUID
	OwnerUsername string
	OwnerFullName string
	OwnerAvatar   string
}

func (o OwnerRow) profile() models.OwnerProfile {
	return models.OwnerProfile{
		ID:       o.OwnerID,
		Username: o.OwnerUsername,
		FullName: o.OwnerFullName,
		Avatar:   o.OwnerAvatar,
	}
}
