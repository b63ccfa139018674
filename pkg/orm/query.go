// Package orm is a thin query wrapper over GORM. Repositories use it instead
// of raw *gorm.DB so pagination and read-through caching stay uniform.
package orm

import (
	"time"

	"github.com/Zin-Mg-Nyunt/shopping/pkg/cache"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/logger"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/metrics"
	"gorm.io/gorm"
)

// Pagination is the metadata returned alongside paginated result sets.
type Pagination struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
	HasMore  bool  `json:"has_more"`
}

type Query struct {
	db *gorm.DB
}

// Wrap starts a query chain on an explicit connection, e.g. a transaction
// handle or a test database.
func Wrap(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Preload(relation string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(relation, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Create(value interface{}) error {
	return q.db.Create(value).Error
}

// GetWithPagination loads one page into dest and reports page metadata.
// page is 1-based; perPage falls back to 15 when out of range.
func (q *Query) GetWithPagination(dest interface{}, page, perPage int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 15
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * perPage
	if err := q.db.Limit(perPage).Offset(offset).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	return Pagination{
		Page:     page,
		PerPage:  perPage,
		Total:    total,
		LastPage: lastPage,
		HasMore:  page < lastPage,
	}, nil
}

// Cache serves dest from Redis under key, falling back to the database and
// memoizing the result for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		metrics.CacheHits.WithLabelValues("redis").Inc()
		return nil
	}
	metrics.CacheMisses.WithLabelValues("redis").Inc()
	logger.Debug("cache miss", "key", key)

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	return cache.Set(key, dest, ttl)
}
