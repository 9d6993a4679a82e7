package rng

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
)

// ErrEmptyPool is returned when a pool has no weight to draw from
// (no entries, or every entry has zero slots).
var ErrEmptyPool = errors.New("pool has no weight to draw from")

// Pool is a cumulative-weight table built over a ledger snapshot. Entry order
// is the snapshot order, so a recorded roll always replays to the same index.
type Pool struct {
	cumulative []int64
	total      int64
}

// BuildPool computes cumulative weights over the given slot counts.
// Zero-weight entries are allowed; they occupy no range and can never be
// picked. Fails with ErrEmptyPool when the total weight is zero.
func BuildPool(weights []int) (*Pool, error) {
	cumulative := make([]int64, len(weights))
	var total int64
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("weight at index %d is negative (%d)", i, w)
		}
		total += int64(w)
		cumulative[i] = total
	}
	if total == 0 {
		return nil, ErrEmptyPool
	}
	return &Pool{cumulative: cumulative, total: total}, nil
}

// TotalWeight returns the sum of all weights in the pool.
func (p *Pool) TotalWeight() int64 {
	return p.total
}

// Roll draws a uniform random value in [0, totalWeight) using crypto/rand.
func (p *Pool) Roll() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(p.total))
	if err != nil {
		return 0, fmt.Errorf("failed to draw random value: %w", err)
	}
	return n.Int64(), nil
}

// Pick returns the index of the first entry whose cumulative weight exceeds
// roll. Splitting Roll and Pick lets an audited roll be replayed against the
// same snapshot to verify the recorded winner.
func (p *Pool) Pick(roll int64) (int, error) {
	if roll < 0 || roll >= p.total {
		return 0, fmt.Errorf("roll %d out of range [0, %d)", roll, p.total)
	}
	idx := sort.Search(len(p.cumulative), func(i int) bool {
		return p.cumulative[i] > roll
	})
	return idx, nil
}

// Draw rolls and picks in one step, returning both the winning index and the
// raw roll for the audit record.
func (p *Pool) Draw() (int, int64, error) {
	roll, err := p.Roll()
	if err != nil {
		return 0, 0, err
	}
	idx, err := p.Pick(roll)
	if err != nil {
		return 0, 0, err
	}
	return idx, roll, nil
}
