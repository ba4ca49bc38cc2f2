// Package simulator produces the synthetic marketing datasets: one row per
// day and dimension combination over a configured date range, with value
// ranges, weekend and summer boosts and a growing seasonal business trend.
//
// Every dataset draws from its own random source seeded from the run seed and
// the dataset name, so a seed reproduces the same files whatever order the
// generators run in.
package simulator
