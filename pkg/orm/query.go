// Package orm is a chainable wrapper over gorm that times every terminal
// call into the db_query_duration histogram and adds paging and caching.
//
//	var products []models.Product
//	page, err := orm.WithContext(ctx).
//	    Model(&models.Product{}).
//	    Where("category_id = ?", id).
//	    Order("created_at DESC").
//	    Paginate(&products, 1, 20)
package orm

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/PascalSeth/trendiwear/pkg/cache"
	"github.com/PascalSeth/trendiwear/pkg/database"
	"github.com/PascalSeth/trendiwear/pkg/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Query struct {
	db *gorm.DB
}

// Pagination is the paging block of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// DB starts a query on the global connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// WithContext starts a query bound to ctx.
func WithContext(ctx context.Context) *Query {
	return &Query{db: database.DB.WithContext(ctx)}
}

// Use wraps an existing gorm handle, usually a transaction.
func Use(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Transaction runs fn in a transaction on the global connection.
// Returning an error from fn rolls back.
func Transaction(ctx context.Context, fn func(tx *Query) error) error {
	defer metrics.ObserveDBQuery("transaction", time.Now())
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Use(tx))
	})
}

// Gorm exposes the underlying handle for anything the wrapper lacks.
func (q *Query) Gorm() *gorm.DB { return q.db }

// Fresh drops accumulated conditions but keeps the session (tx, ctx).
func (q *Query) Fresh() *Query {
	return &Query{db: q.db.Session(&gorm.Session{NewDB: true})}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Table(name string) *Query {
	return &Query{db: q.db.Table(name)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Or(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Or(query, args...)}
}

func (q *Query) Preload(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(query, args...)}
}

func (q *Query) Joins(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Joins(query, args...)}
}

func (q *Query) Select(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Select(query, args...)}
}

func (q *Query) Group(name string) *Query {
	return &Query{db: q.db.Group(name)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Offset(n int) *Query {
	return &Query{db: q.db.Offset(n)}
}

// ForUpdate adds SELECT ... FOR UPDATE. SQLite serialises writers itself
// and has no row locks, so the clause is skipped there.
func (q *Query) ForUpdate() *Query {
	if q.db.Dialector.Name() == "sqlite" {
		return q
	}
	return &Query{db: q.db.Clauses(clause.Locking{Strength: "UPDATE"})}
}

// Get loads every matching row into dest.
func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

// First loads the first row by primary key; gorm.ErrRecordNotFound when none.
func (q *Query) First(dest interface{}, conds ...interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest, conds...).Error
}

func (q *Query) Count() (int64, error) {
	defer metrics.ObserveDBQuery("count", time.Now())
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

func (q *Query) Exists() (bool, error) {
	n, err := q.Limit(1).Count()
	return n > 0, err
}

// Scan runs the built query into an arbitrary struct, e.g. an aggregate.
func (q *Query) Scan(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Scan(dest).Error
}

// Pluck reads a single column into dest.
func (q *Query) Pluck(column string, dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Pluck(column, dest).Error
}

func (q *Query) Create(value interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(value).Error
}

func (q *Query) Save(value interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Save(value).Error
}

// Updates applies a struct or map to the rows selected by Model/Where.
func (q *Query) Updates(values interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("update", time.Now())
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

// Update sets one column, allowing gorm.Expr for arithmetic.
func (q *Query) Update(column string, value interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("update", time.Now())
	res := q.db.Update(column, value)
	return res.RowsAffected, res.Error
}

func (q *Query) Delete(value interface{}, conds ...interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())
	res := q.db.Delete(value, conds...)
	return res.RowsAffected, res.Error
}

// Cache serves dest from Redis when present, else loads and stores it.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	if err := q.Get(dest); err != nil {
		return err
	}

	_ = cache.Set(key, dest, ttl)
	return nil
}

// Paginate counts the matching rows and loads one page into dest.
// page and limit are normalised with NormalizePage.
func (q *Query) Paginate(dest interface{}, page, limit int) (Pagination, error) {
	page, limit = NormalizePage(page, limit)

	total, err := q.counter().Count()
	if err != nil {
		return Pagination{}, err
	}

	if err := q.Offset((page - 1) * limit).Limit(limit).Get(dest); err != nil {
		return Pagination{}, err
	}

	return NewPagination(page, limit, total), nil
}

// counter is an isolated copy of q for Count, with preloads dropped.
func (q *Query) counter() *Query {
	tx := q.db.Session(&gorm.Session{}).InstanceSet("orm:count", true)
	tx.Statement.Preloads = nil
	return &Query{db: tx}
}

// Session clones the statement so a Count does not leak into the next call.
func (q *Query) Session() *Query {
	return &Query{db: q.db.Session(&gorm.Session{})}
}

// NormalizePage clamps page to ≥1 and limit to 1..MaxLimit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_", "[", "![")

// Contains builds a LIKE pattern matching s literally anywhere in the
// column. The clause must carry ESCAPE '!':
//
//	q.Where("LOWER(name) LIKE ? ESCAPE '!'", orm.Contains(term))
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
