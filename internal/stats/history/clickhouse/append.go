package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

const insertRecordsQuery = `
INSERT INTO stats_blocks (
	coin,
	network,
	height,
	time,
	difficulty,
	reward,
	dev_fund,
	tx_fee
) VALUES`

// Append queues the record for the next batch insert.
func (l *Log) Append(ctx context.Context, record model.BlockRecord) error {
	if err := l.batch.Add(ctx, record); err != nil {
		return model.PersistenceError(fmt.Sprintf("queue height %d", record.Height), err)
	}
	return nil
}

func (l *Log) insertRecords(ctx context.Context, records []model.BlockRecord) (err error) {
	start := time.Now()
	defer func() {
		l.metrics.Observe("insert_records", err, start)
	}()

	if len(records) == 0 {
		return nil
	}

	batch, err := l.conn.PrepareBatch(ctx, insertRecordsQuery)
	if err != nil {
		return fmt.Errorf("prepare records batch: %w", err)
	}

	for _, r := range records {
		if err = batch.Append(
			string(l.coin),
			string(l.network),
			r.Height,
			r.Time,
			r.Difficulty,
			r.Reward,
			int64(r.DevFund),
			int64(r.TxFee),
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append record %d: %w", r.Height, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	return nil
}
