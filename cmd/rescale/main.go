// Command rescale regrids tabular spectra onto a uniform wavelength grid
// inside a trim window and writes one text file per epoch.
//
// Usage:
//
//	rescale --filename F [flags]
//	rescale [flags] FILE ...
//
// Examples:
//
//	rescale --filename sn2011fe.txt
//	rescale --filename grb.csv --delim comma --timecol 2 --hdr 1
//	rescale --config rescale.toml --outdir out/ a.txt b.txt
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
