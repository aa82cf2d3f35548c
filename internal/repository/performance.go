package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mirrortrade/backend/internal/models"
)

// StatsRepo backs both the aggregation batch (it satisfies the
// aggregator's Store interface) and the read API for performance
// snapshots.
type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

func (r *StatsRepo) ActiveSignalAccountIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM signal_accounts WHERE is_active = TRUE ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *StatsRepo) TradesBySignalAccount(ctx context.Context, signalAccountID string) ([]models.Trade, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM trades WHERE signal_account_id = $1`,
		signalAccountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrades(rows)
}

func (r *StatsRepo) UpsertStats(ctx context.Context, s *models.PerformanceStats) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO performance_stats
		 (id, signal_account_id, period, return_percentage, win_rate, drawdown,
		  total_trades, winning_trades, losing_trades, calculated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT (signal_account_id, period) DO UPDATE SET
		   return_percentage = EXCLUDED.return_percentage,
		   win_rate          = EXCLUDED.win_rate,
		   drawdown          = EXCLUDED.drawdown,
		   total_trades      = EXCLUDED.total_trades,
		   winning_trades    = EXCLUDED.winning_trades,
		   losing_trades     = EXCLUDED.losing_trades,
		   calculated_at     = EXCLUDED.calculated_at,
		   updated_at        = NOW()`,
		uuid.NewString(), s.SignalAccountID, s.Period, s.ReturnPercentage, s.WinRate,
		s.Drawdown, s.TotalTrades, s.WinningTrades, s.LosingTrades, s.CalculatedAt,
	)
	return err
}

func (r *StatsRepo) BySignalAccount(ctx context.Context, signalAccountID string) ([]models.PerformanceStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM performance_stats WHERE signal_account_id = $1 ORDER BY period ASC`,
		signalAccountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStats(rows)
}

// TopByReturn powers the home-page top performers list.
func (r *StatsRepo) TopByReturn(ctx context.Context, limit int) ([]models.PerformanceStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM performance_stats
		 WHERE period = $1
		 ORDER BY return_percentage DESC LIMIT $2`,
		models.PeriodAllTime, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStats(rows)
}

func collectStats(rows rowsIter) ([]models.PerformanceStats, error) {
	var out []models.PerformanceStats
	for rows.Next() {
		var s models.PerformanceStats
		if err := rows.Scan(
			&s.ID, &s.SignalAccountID, &s.Period, &s.ReturnPercentage, &s.WinRate,
			&s.Drawdown, &s.TotalTrades, &s.WinningTrades, &s.LosingTrades,
			&s.CalculatedAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
