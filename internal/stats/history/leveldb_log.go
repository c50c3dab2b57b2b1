package history

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"go.uber.org/zap"
)

// LevelDBLog keys records by big-endian height, so iteration order is height order.
type LevelDBLog struct {
	db      *leveldb.DB
	logger  *zap.Logger
	metrics Metrics
	write   *opt.WriteOptions
}

func NewLevelDBLog(path string, syncWrites bool, logger *zap.Logger, metrics Metrics) (*LevelDBLog, error) {
	if path == "" {
		return nil, errors.New("history leveldb path is required")
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return &LevelDBLog{
		db:      db,
		logger:  logger,
		metrics: metrics,
		write:   &opt.WriteOptions{Sync: syncWrites},
	}, nil
}

func heightKey(height uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, height)
	return key
}

// Replay calls fn for every stored record in ascending height order.
func (l *LevelDBLog) Replay(ctx context.Context, fn func(model.BlockRecord) error) (err error) {
	started := time.Now()
	defer func() {
		l.metrics.Observe("replay", err, started)
	}()

	iter := l.db.NewIterator(nil, nil)
	defer iter.Release()

	for iter.Next() {
		if err = ctx.Err(); err != nil {
			return err
		}
		var record model.BlockRecord
		if decodeErr := json.Unmarshal(iter.Value(), &record); decodeErr != nil {
			l.logger.Warn("skipping malformed history entry", zap.Binary("key", iter.Key()), zap.Error(decodeErr))
			continue
		}
		if err = fn(record); err != nil {
			return err
		}
	}
	if err = iter.Error(); err != nil {
		return model.PersistenceError("iterate history", err)
	}
	return nil
}

// Append stores the record under its height, replacing any previous entry.
func (l *LevelDBLog) Append(_ context.Context, record model.BlockRecord) (err error) {
	started := time.Now()
	defer func() {
		l.metrics.Observe("append", err, started)
	}()

	data, err := json.Marshal(record)
	if err != nil {
		return model.MalformedError("encode history record", err)
	}
	if err = l.db.Put(heightKey(record.Height), data, l.write); err != nil {
		return model.PersistenceError(fmt.Sprintf("put height %d", record.Height), err)
	}
	return nil
}

func (l *LevelDBLog) Close() error {
	return l.db.Close()
}
