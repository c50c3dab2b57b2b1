package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const replayQuery = `
SELECT height, time, difficulty, reward, dev_fund, tx_fee
FROM stats_blocks FINAL
WHERE coin = ? AND network = ?
ORDER BY height`

// Replay streams stored records in ascending height order.
func (l *Log) Replay(ctx context.Context, fn func(model.BlockRecord) error) (err error) {
	start := time.Now()
	defer func() {
		l.metrics.Observe("replay", err, start)
	}()

	rows, err := l.conn.Query(ctx, replayQuery, string(l.coin), string(l.network))
	if err != nil {
		return model.PersistenceError("query history", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		var (
			record         model.BlockRecord
			difficulty     decimal.Decimal
			devFund, txFee int64
		)
		if scanErr := rows.Scan(&record.Height, &record.Time, &difficulty, &record.Reward, &devFund, &txFee); scanErr != nil {
			l.logger.Warn("skipping malformed history row", zap.Error(scanErr))
			continue
		}
		record.Difficulty = difficulty
		record.DevFund = btcutil.Amount(devFund)
		record.TxFee = btcutil.Amount(txFee)

		if err = fn(record); err != nil {
			return err
		}
	}
	if err = rows.Err(); err != nil {
		return model.PersistenceError("iterate history", err)
	}
	return nil
}
