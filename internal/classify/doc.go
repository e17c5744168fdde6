// Package classify implements the row classifier at the heart of labelsplit.
// It decides, for every row of a CSV table, whether the row is kept or
// excluded based on the value of its labels column.
//
// The matching rule is an explicit tagged variant, [Mode], with three
// mutually exclusive kinds: [EmptyLabels], [TargetLabels] and
// [ExcludeSubstrings]. A [Classifier] applies one Mode to a table and
// returns a [Result] holding both partitions in input order.
package classify
