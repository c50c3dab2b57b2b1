// Package history persists block records so state can be rebuilt on restart.
package history

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"go.uber.org/zap"
)

const maxLineSize = 1 << 20

// FileLog stores one JSON record per line in an append-only file.
type FileLog struct {
	path    string
	logger  *zap.Logger
	metrics Metrics

	mu   sync.Mutex
	file *os.File
}

func NewFileLog(path string, logger *zap.Logger, metrics Metrics) (*FileLog, error) {
	if path == "" {
		return nil, errors.New("history file path is required")
	}
	return &FileLog{path: path, logger: logger, metrics: metrics}, nil
}

// Replay calls fn for every well-formed line in file order. A missing file is an empty log.
// Malformed lines are logged and skipped.
func (l *FileLog) Replay(ctx context.Context, fn func(model.BlockRecord) error) (err error) {
	started := time.Now()
	defer func() {
		l.metrics.Observe("replay", err, started)
	}()

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Info("history file not found, starting empty", zap.String("path", l.path))
		return nil
	}
	if err != nil {
		return model.PersistenceError("open history file", err)
	}
	defer func() {
		_ = f.Close()
	}()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if err = ctx.Err(); err != nil {
			return err
		}
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var record model.BlockRecord
		if decodeErr := json.Unmarshal(raw, &record); decodeErr != nil {
			l.logger.Warn("skipping malformed history line", zap.Int("line", line), zap.Error(decodeErr))
			continue
		}
		if err = fn(record); err != nil {
			return err
		}
	}
	if err = scanner.Err(); err != nil {
		return model.PersistenceError("read history file", err)
	}
	return nil
}

// Append writes the record as a new line.
func (l *FileLog) Append(_ context.Context, record model.BlockRecord) (err error) {
	started := time.Now()
	defer func() {
		l.metrics.Observe("append", err, started)
	}()

	data, err := json.Marshal(record)
	if err != nil {
		return model.MalformedError("encode history record", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		l.file, err = os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			l.file = nil
			return model.PersistenceError("open history file", err)
		}
	}
	if _, err = l.file.Write(data); err != nil {
		return model.PersistenceError(fmt.Sprintf("append height %d", record.Height), err)
	}
	return nil
}

func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
