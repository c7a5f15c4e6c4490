// Package strain loads sampled strain time series from plain text, the
// layout published by open gravitational-wave data archives:
//
//	# optional comment lines
//	<time> <strain>
//	<time> <strain>
//
// A single value column is accepted when the sample interval is supplied
// by the caller.
package strain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNoSamples indicates input without any data rows.
	ErrNoSamples = errors.New("strain: no samples")

	// ErrBadInterval indicates a missing or non-positive sample interval.
	ErrBadInterval = errors.New("strain: sample interval must be positive")

	// ErrNonUniform indicates a time column whose spacing varies.
	ErrNonUniform = errors.New("strain: time column is not uniformly sampled")

	// ErrColumns indicates rows with an unsupported or inconsistent column count.
	ErrColumns = errors.New("strain: expected one or two columns")
)

const (
	valueOnlyColumns = 1
	timeValueColumns = 2

	// spacingTolerance is the allowed relative deviation of any row spacing
	// from the mean interval. Printed times are rounded, and GPS offsets near
	// 1e9 s leave about 2.4e-7 s of float64 resolution.
	spacingTolerance = 0.01
)

// Series is a uniformly sampled strain record.
type Series struct {
	Values   []float64
	Interval float64 // seconds
	Start    float64 // time of the first sample, 0 when absent
}

// Read parses r. interval is only consulted for single-column input; pass 0
// to require a time column.
func Read(r io.Reader, interval float64) (*Series, error) {
	var (
		times   []float64
		values  []float64
		columns int
		lineNo  int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == '%' {
			continue
		}

		fields := strings.FieldsFunc(line, func(c rune) bool {
			return c == ',' || c == ' ' || c == '\t'
		})
		if columns == 0 {
			columns = len(fields)
			if columns != valueOnlyColumns && columns != timeValueColumns {
				return nil, fmt.Errorf("%w: line %d has %d", ErrColumns, lineNo, columns)
			}
		}
		if len(fields) != columns {
			return nil, fmt.Errorf("%w: line %d has %d, want %d", ErrColumns, lineNo, len(fields), columns)
		}

		nums := make([]float64, columns)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("strain: line %d: %w", lineNo, err)
			}
			nums[i] = v
		}

		if columns == timeValueColumns {
			times = append(times, nums[0])
		}
		values = append(values, nums[columns-1])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("strain: read: %w", err)
	}

	if len(values) == 0 {
		return nil, ErrNoSamples
	}

	s := &Series{Values: values, Interval: interval}
	if columns == timeValueColumns {
		s.Start = times[0]
		if n := len(times); n > 1 {
			s.Interval = (times[n-1] - times[0]) / float64(n-1)
		}
	}
	if !(s.Interval > 0) || math.IsInf(s.Interval, 0) {
		return nil, fmt.Errorf("%w: got %g", ErrBadInterval, s.Interval)
	}
	if err := checkUniform(times, s.Interval); err != nil {
		return nil, err
	}
	return s, nil
}

// checkUniform requires every spacing of times to stay within
// spacingTolerance of interval.
func checkUniform(times []float64, interval float64) error {
	limit := spacingTolerance * interval
	for i := 1; i < len(times); i++ {
		step := times[i] - times[i-1]
		if math.Abs(step-interval) > limit {
			return fmt.Errorf("%w: row %d steps %g s, mean interval %g s", ErrNonUniform, i+1, step, interval)
		}
	}
	return nil
}
