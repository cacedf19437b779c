// Package loader reads wavelength/flux/epoch columns from tabular files.
//
// Delimited text is parsed with encoding/csv, or split on runs of
// whitespace when the delimiter is "space". Files ending in .xlsx are read
// from a spreadsheet sheet instead. Every failure is reported as a
// *LoadError carrying the file and, where known, the line.
package loader
