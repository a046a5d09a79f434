// Package technicals computes indicators over price series.
package technicals

import (
	"errors"
	"fmt"
	"math"

	"github.com/markcheno/go-talib"
)

// DefaultPeriod is the window of MovingAverage when callers have no preference.
const DefaultPeriod = 10

// ErrInvalidPeriod is returned for a window shorter than one value.
var ErrInvalidPeriod = errors.New("invalid period")

// MovingAverage returns the simple moving average of values over a window of
// n values, one output per input.
//
// The window starts filled with def, so the first n-1 outputs average def with
// the values seen so far. With def = NaN those outputs are NaN. A window that
// holds a non-finite value yields NaN; later windows are not affected.
func MovingAverage(values []float64, n int, def float64) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("moving average over %d values: %w", n, ErrInvalidPeriod)
	}
	padded := make([]float64, n-1, n-1+len(values))
	for i := range padded {
		padded[i] = def
	}
	padded = append(padded, values...)

	sma := make([]float64, len(padded))
	for i := range sma {
		sma[i] = math.NaN()
	}
	// talib.Sma keeps a running sum: feed it runs of finite values only.
	start := 0
	for end := 0; end <= len(padded); end++ {
		if end < len(padded) && isFinite(padded[end]) {
			continue
		}
		if run := padded[start:end]; len(run) >= n {
			// talib leaves the lookback at zero.
			avg := talib.Sma(run, n)
			copy(sma[start+n-1:end], avg[n-1:])
		}
		start = end + 1
	}
	return sma[n-1:], nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// MultiMovingAverage computes a NaN-filled moving average for each period and
// returns one row per input value, one column per period. Without periods it
// uses DefaultPeriod.
func MultiMovingAverage(values []float64, periods ...int) ([][]float64, error) {
	if len(periods) == 0 {
		periods = []int{DefaultPeriod}
	}
	columns := make([][]float64, len(periods))
	for j, n := range periods {
		ma, err := MovingAverage(values, n, math.NaN())
		if err != nil {
			return nil, err
		}
		columns[j] = ma
	}

	rows := make([][]float64, len(values))
	for i := range rows {
		rows[i] = make([]float64, len(periods))
		for j := range periods {
			rows[i][j] = columns[j][i]
		}
	}
	return rows, nil
}
