package renderer

import (
	"math"
	"strconv"

	"github.com/etnz/papertrade/technicals"
)

// MovingAverages is a price series with its simple moving averages.
type MovingAverages struct {
	Periods []int        `json:"periods"`
	Rows    []AverageRow `json:"rows"`
}

// AverageRow holds one value of the series and its averages, already
// formatted; an average without enough history is "-".
type AverageRow struct {
	Index    int      `json:"index"`
	Value    string   `json:"value"`
	Averages []string `json:"averages"`
}

// NewMovingAverages computes the moving averages of values for each period,
// technicals.DefaultPeriod when none is given.
func NewMovingAverages(values []float64, periods ...int) (*MovingAverages, error) {
	if len(periods) == 0 {
		periods = []int{technicals.DefaultPeriod}
	}
	rows, err := technicals.MultiMovingAverage(values, periods...)
	if err != nil {
		return nil, err
	}
	m := &MovingAverages{
		Periods: periods,
		Rows:    make([]AverageRow, 0, len(values)),
	}
	for i, v := range values {
		row := AverageRow{
			Index:    i + 1,
			Value:    formatFloat(v),
			Averages: make([]string, len(periods)),
		}
		for j, avg := range rows[i] {
			row.Averages[j] = formatFloat(avg)
		}
		m.Rows = append(m.Rows, row)
	}
	return m, nil
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
