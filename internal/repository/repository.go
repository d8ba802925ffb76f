package repository

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"boutique/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrProtected = errors.New("record is referenced by other records")
)

// ListQuery carries the admin list parameters: free-text search, exact-match
// filters keyed by query name, and 1-based pagination.
type ListQuery struct {
	Search  string
	Filters map[string]string
	Page    int
	Limit   int
}

func (q ListQuery) normalized() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > domain.MaxPageSize {
		q.Limit = domain.DefaultPageSize
	}
	return q
}

type filterKind int

const (
	boolFilter filterKind = iota
	idFilter
	intFilter
	sinceFilter
	untilFilter
)

// filter is a condition with a single placeholder, applied when the query
// carries a parseable value for it.
type filter struct {
	cond string
	kind filterKind
}

func (f filter) arg(raw string) (any, bool) {
	switch f.kind {
	case boolFilter:
		b, err := strconv.ParseBool(raw)
		return b, err == nil
	case idFilter:
		n, err := strconv.ParseUint(raw, 10, 64)
		return uint(n), err == nil
	case intFilter:
		n, err := strconv.Atoi(raw)
		return n, err == nil
	case sinceFilter, untilFilter:
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, false
		}
		if f.kind == untilFilter {
			t = t.Add(24 * time.Hour)
		}
		return t, true
	}
	return nil, false
}

// listSpec describes how one table is listed in the admin.
type listSpec struct {
	search   []string // conditions with one placeholder, OR'ed together
	filters  map[string]filter
	order    string
	preloads []string
}

func (s listSpec) apply(db *gorm.DB, q ListQuery) *gorm.DB {
	if term := strings.TrimSpace(q.Search); term != "" && len(s.search) > 0 {
		like := "%" + strings.ToLower(term) + "%"
		args := make([]any, len(s.search))
		for i := range args {
			args[i] = like
		}
		db = db.Where("("+strings.Join(s.search, " OR ")+")", args...)
	}
	for key, raw := range q.Filters {
		f, ok := s.filters[key]
		if !ok || raw == "" {
			continue
		}
		if v, ok := f.arg(raw); ok {
			db = db.Where(f.cond, v)
		}
	}
	return db
}

func (s listSpec) preload(db *gorm.DB) *gorm.DB {
	for _, p := range s.preloads {
		db = db.Preload(p)
	}
	return db
}

// crud implements the list/get/create/update/delete surface shared by every
// admin-managed table.
type crud[T any] struct {
	db   *gorm.DB
	spec listSpec
}

func (r *crud[T]) List(q ListQuery) ([]T, int64, error) {
	q = q.normalized()
	query := r.spec.apply(r.db.Model(new(T)), q)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []T
	err := r.spec.preload(query).
		Order(r.spec.order).
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&items).Error
	return items, total, err
}

func (r *crud[T]) GetByID(id uint) (*T, error) {
	var v T
	if err := r.spec.preload(r.db).First(&v, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

func (r *crud[T]) Create(v *T) error {
	return r.db.Create(v).Error
}

// Update writes every column of v; associations are managed separately.
func (r *crud[T]) Update(v *T) error {
	return r.db.Omit(clause.Associations).Save(v).Error
}

func (r *crud[T]) Delete(id uint) error {
	res := r.db.Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
