package postgres

import (
	"context"
	"fmt"

	"github.com/gefest173/meteora/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SearchHistoryRepository struct {
	pool *pgxpool.Pool
}

func NewSearchHistoryRepository(pool *pgxpool.Pool) *SearchHistoryRepository {
	return &SearchHistoryRepository{pool: pool}
}

func (r *SearchHistoryRepository) Record(ctx context.Context, userID, locationID int64, cityName string, maxItems int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO search_history (user_id, location_id, city_name, search_count, last_searched)
		VALUES ($1, $2, $3, 1, NOW())
		ON CONFLICT (user_id, location_id)
		DO UPDATE SET search_count = search_history.search_count + 1, last_searched = NOW()`,
		userID, locationID, cityName,
	)
	if err != nil {
		return fmt.Errorf("record search: %w", err)
	}

	// Keep only the newest maxItems entries per user.
	_, err = tx.Exec(ctx, `
		DELETE FROM search_history
		WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM search_history
			WHERE user_id = $1
			ORDER BY last_searched DESC
			LIMIT $2
		)`,
		userID, maxItems,
	)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *SearchHistoryRepository) ListByUser(ctx context.Context, userID int64) ([]domain.SearchHistory, error) {
	query := `SELECT id, user_id, location_id, city_name, search_count, last_searched
		FROM search_history
		WHERE user_id = $1
		ORDER BY last_searched DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var items []domain.SearchHistory
	for rows.Next() {
		var h domain.SearchHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.LocationID, &h.CityName, &h.SearchCount, &h.LastSearched); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

func (r *SearchHistoryRepository) Delete(ctx context.Context, recordID, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM search_history WHERE id = $1 AND user_id = $2`,
		recordID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHistoryNotFound
	}
	return nil
}
