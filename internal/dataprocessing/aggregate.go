package dataprocessing

import (
	"sort"
	"time"

	"evagobi/pkg/contracts/domain"
)

// Frequency is the size of a time bucket
type Frequency string

const (
	Daily   Frequency = "D"
	Weekly  Frequency = "W"
	Monthly Frequency = "M"
)

// Bucket returns the label of the period containing t: the day itself, the
// Sunday closing its Monday-Sunday week, or the last day of its month.
func (f Frequency) Bucket(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch f {
	case Weekly:
		return day.AddDate(0, 0, (7-int(day.Weekday()))%7)
	case Monthly:
		return time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	}
	return day
}

// Group is the set of rows sharing a dimension value and time bucket
type Group[T any] struct {
	Key    string
	Bucket time.Time
	Rows   []T
}

type groupKey struct {
	key    string
	bucket time.Time
}

// GroupBy partitions rows by (dimension, bucket) and returns the groups sorted
// by dimension value, then bucket. A nil dim groups by bucket only.
func GroupBy[T any](rows []T, freq Frequency, date func(T) time.Time, dim func(T) string) []Group[T] {
	index := make(map[groupKey]int)
	var groups []Group[T]

	for _, row := range rows {
		k := groupKey{bucket: freq.Bucket(date(row))}
		if dim != nil {
			k.key = dim(row)
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[T]{Key: k.key, Bucket: k.bucket})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Key != groups[j].Key {
			return groups[i].Key < groups[j].Key
		}
		return groups[i].Bucket.Before(groups[j].Bucket)
	})
	return groups
}

// SafeDivide returns num/den, or 0 when den is 0
func SafeDivide(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// SumInt totals an integer column
func SumInt[T any](rows []T, col func(T) int) int {
	total := 0
	for _, r := range rows {
		total += col(r)
	}
	return total
}

// SumFloat totals a float column
func SumFloat[T any](rows []T, col func(T) float64) float64 {
	total := 0.0
	for _, r := range rows {
		total += col(r)
	}
	return total
}

// Mean averages a float column; an empty set has mean 0
func Mean[T any](rows []T, col func(T) float64) float64 {
	return SafeDivide(SumFloat(rows, col), float64(len(rows)))
}

// RollingMean is the trailing mean over window values. Positions before the
// window is full are null.
func RollingMean(values []float64, window int) []domain.NullFloat {
	out := make([]domain.NullFloat, len(values))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		for _, v := range values[i-window+1 : i+1] {
			sum += v
		}
		out[i] = domain.Float(sum / float64(window))
	}
	return out
}

// PctChange is the relative change from the previous value. The first
// position is null and a zero previous value yields 0.
func PctChange(values []float64) []domain.NullFloat {
	out := make([]domain.NullFloat, len(values))
	for i := 1; i < len(values); i++ {
		out[i] = domain.Float(SafeDivide(values[i]-values[i-1], values[i-1]))
	}
	return out
}
