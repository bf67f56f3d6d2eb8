package mysql

import (
	"context"
	"database/sql"
	"math"

	_ "github.com/go-sql-driver/mysql"

	"reviewwise/internal/adapters/observability"
	"reviewwise/internal/domain"
)

const backend = "mysql"

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects with the driver's DSN format, e.g.
// user:pass@tcp(host:3306)/reviewwise?parseTime=true
func Open(ctx context.Context, dsn string) (*Repo, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) Append(ctx context.Context, rv domain.Review) error {
	_, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.ID,
		rv.Username,
		rv.Rating,
		rv.ReviewText,
		rv.Date,
		rv.Source,
		rv.Category,
		rv.ItemName,
	)
	observability.ObserveStore(backend, "append", err)
	return err
}

func (r *Repo) ReadAll(ctx context.Context) ([]domain.Review, error) {
	out, err := r.query(ctx, selectReviewsSQL+" ORDER BY seq")
	observability.ObserveStore(backend, "read_all", err)
	return out, err
}

func (r *Repo) ListReviews(ctx context.Context, q domain.ReviewsQuery) (domain.ReviewsPage, error) {
	limit := int64(q.Limit) + 1
	if q.Limit <= 0 {
		limit = math.MaxInt64
	}
	items, err := r.query(ctx, listReviewsSQL, q.Category, q.Category, limit, q.Offset)
	observability.ObserveStore(backend, "list", err)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.NewPage(items, q), nil
}

func (r *Repo) CountByCategory(ctx context.Context) (map[string]int, error) {
	out, err := r.counts(ctx)
	observability.ObserveStore(backend, "count", err)
	return out, err
}

func (r *Repo) counts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, countByCategorySQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		out[cat] = n
	}
	return out, rows.Err()
}

func (r *Repo) query(ctx context.Context, q string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.Username,
			&rv.Rating,
			&rv.ReviewText,
			&rv.Date,
			&rv.Source,
			&rv.Category,
			&rv.ItemName,
		); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
