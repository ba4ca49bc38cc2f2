// Package dataprocessing reshapes the raw marketing datasets into the flat
// chart tables consumed by Power BI.
//
// # Architecture
//
// The package is organized into four parts:
//
// 1. Codec: maps csv-tagged row structs to and from text records
// 2. Loader: reads the raw evago_*_data.csv files into domain.Datasets
// 3. Aggregation: time bucketing, group-by and the zero-guarded ratios
// 4. Preparer: builds one table per chart and hands them to the exporters
//
// # Usage
//
//	ds, err := dataprocessing.NewLoader(logger).LoadAll(ctx, paths.RawDir)
//	if err != nil {
//	    return err
//	}
//	result, err := dataprocessing.NewPreparer(paths, opts, logger, metrics).PrepareAll(ctx, ds)
//
// # Buckets
//
// Monthly buckets are labelled with the last day of the month and weekly
// buckets with the Sunday that closes a Monday-Sunday week. Groups are always
// ordered by dimension value, then bucket.
//
// # Ratios
//
// Every derived ratio goes through SafeDivide, which yields 0 instead of a
// division by zero. Rolling means and period-over-period changes are null
// where no value is defined yet and are written as empty cells.
package dataprocessing
