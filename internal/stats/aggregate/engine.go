// Package aggregate folds block records into the running current state and the per-day table.
package aggregate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

// ErrAlreadyIngested is returned for a record at or below the last ingested height.
var ErrAlreadyIngested = errors.New("block already ingested")

// Engine owns the current state and the daily table. Ingest is the only mutating fold;
// readers receive copies.
type Engine struct {
	mu       sync.RWMutex
	state    model.CurrentState
	daily    model.DailyTable
	ingested bool
}

func NewEngine() *Engine {
	return &Engine{daily: make(model.DailyTable)}
}

// Ingest folds one record into the state and returns the updated aggregate of the record's day.
func (e *Engine) Ingest(record model.BlockRecord) (model.DailyAggregate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ingested && record.Height <= e.state.Height {
		return model.DailyAggregate{}, fmt.Errorf("height %d (last %d): %w", record.Height, e.state.Height, ErrAlreadyIngested)
	}

	e.state.Height = record.Height
	e.state.Time = record.Time
	e.state.Difficulty = record.Difficulty
	e.state.Reward = record.Reward
	e.state.DevFund = record.DevFund
	e.state.TxFee = record.TxFee

	e.state.TotalRewards += record.RewardAmount()
	e.state.TotalDevFunds += record.DevFund
	e.state.TotalTxFees += record.TxFee

	date := record.Date()
	day := e.daily[date]
	day.Blocks++
	day.TotalDifficulty = day.TotalDifficulty.Add(record.Difficulty).Round(model.DifficultyPlaces)
	day.TotalRewards += record.Reward
	e.daily[date] = day

	e.ingested = true
	return day, nil
}

// Height returns the last ingested height and whether any record was ingested.
func (e *Engine) Height() (uint64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Height, e.ingested
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() model.CurrentState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Daily returns a copy of the full daily table.
func (e *Engine) Daily() model.DailyTable {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.daily.Clone()
}

// Day returns the aggregate for one YYYY-MM-DD date.
func (e *Engine) Day(date string) (model.DailyAggregate, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	day, ok := e.daily[date]
	return day, ok
}

// Supply returns circulating supply in whole coins.
func (e *Engine) Supply() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Supply()
}

func (e *Engine) SetBurned(total btcutil.Amount) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.TotalBurned = total
}

func (e *Engine) SetNetworkHashrate(hashps int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.NetworkHashPS = hashps
}
