package hss

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/hashicorp/go-multierror"
	"github.com/hbsig/hss-go/lms/common"
)

// validateLevels checks every level's (LMS, LM-OTS) pair independently
// and aggregates all failures, rather than stopping at the first bad
// level - a caller that hands us 8 levels with 3 bad type codes should
// see all 3, not just the first.
func validateLevels(levels []LevelParam) error {
	var result error

	if len(levels) < 1 || uint64(len(levels)) > common.MAX_HSS_LEVELS {
		result = multierror.Append(result, errors.New("validateLevels(): level count must be between 1 and MAX_HSS_LEVELS"))
	}

	for i, lvl := range levels {
		if lvl.Lms == nil || lvl.Ots == nil {
			result = multierror.Append(result, errors.New("validateLevels(): level has a nil algorithm"))
			continue
		}
		if _, err := lvl.Lms.LmsType(); err != nil {
			result = multierror.Append(result, errorAtLevel(i, err))
		}
		if _, err := lvl.Ots.LmsOtsType(); err != nil {
			result = multierror.Append(result, errorAtLevel(i, err))
		}
	}

	return result
}

func errorAtLevel(i int, err error) error {
	return &levelError{level: i, err: err}
}

type levelError struct {
	level int
	err   error
}

func (e *levelError) Error() string {
	return fmt.Sprintf("level %d: %s", e.level, e.err.Error())
}

func (e *levelError) Unwrap() error {
	return e.err
}

// levelHeights returns the tree height h_k of every level.
func levelHeights(levels []LevelParam) ([]uint64, error) {
	heights := make([]uint64, len(levels))
	for i, lvl := range levels {
		params, err := lvl.Lms.LmsParams()
		if err != nil {
			return nil, err
		}
		heights[i] = params.H
	}
	return heights, nil
}

// capacity returns the total number of leaves an HSS key of these
// levels can sign, as a big.Int since the product of per-level tree
// sizes routinely exceeds 2^64 for deep/tall parameter sets even
// though Q itself is a uint64.
func capacity(heights []uint64) *big.Int {
	var total uint64
	for _, h := range heights {
		total += h
	}
	return new(big.Int).Lsh(big.NewInt(1), uint(total))
}

// decomposeQ splits the global counter Q into per-level leaf indices
// q_0 (most significant) ... q_{L-1} (least significant), per §4.F.
func decomposeQ(q uint64, heights []uint64) []uint32 {
	indices := make([]uint32, len(heights))
	remaining := new(big.Int).SetUint64(q)
	for k := len(heights) - 1; k >= 0; k-- {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(heights[k]))
		rem := new(big.Int)
		remaining.DivMod(remaining, mod, rem)
		indices[k] = uint32(rem.Uint64())
	}
	return indices
}
