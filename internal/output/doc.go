// Package output names and writes the partition files produced by a split.
//
// The package is organized around three concerns:
//
//   - Naming (naming.go): derive "<stem>_filtered.csv" and
//     "<stem>_excluded.csv" next to the input file.
//
//   - Writers (writer.go): destinations via the [Writer] interface, with
//     [FileWriter] and [StreamWriter] implementations.
//
//   - Report formats (registry.go): machine-readable encoders for report
//     commands, looked up by name in a [Registry].
package output
