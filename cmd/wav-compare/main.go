package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/cwbudde/algo-synth/analysis"
	"github.com/cwbudde/algo-synth/internal/wavcompat"
)

func main() {
	spectral := flag.Bool("spectral", false, "Also report spectral RMSE and similarity")
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-spectral] reference.wav candidate.wav\n", os.Args[0])
		os.Exit(1)
	}
	refPath := flag.Arg(0)
	candPath := flag.Arg(1)

	ref, refChannels, refRate, err := wavcompat.ReadSamples(refPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", refPath, err)
		os.Exit(1)
	}
	cand, candChannels, candRate, err := wavcompat.ReadSamples(candPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", candPath, err)
		os.Exit(1)
	}

	if candRate != refRate {
		fmt.Printf("Resampling candidate from %d Hz to %d Hz\n", candRate, refRate)
		cand, err = wavcompat.ResampleIfNeeded(cand, candRate, refRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resampling: %v\n", err)
			os.Exit(1)
		}
	}
	if refChannels != candChannels {
		fmt.Printf("Channel counts differ (%d vs %d); comparing downmixed mono\n", refChannels, candChannels)
		ref = wavcompat.Downmix(ref, refChannels)
		cand = wavcompat.Downmix(cand, candChannels)
		refChannels, candChannels = 1, 1
	}

	fmt.Printf("Comparing %s and %s\n", refPath, candPath)
	diff := analysis.Compare(ref, cand)
	if diff.SamplesA != diff.SamplesB {
		fmt.Printf("The number of samples does not match: %d vs %d\n", diff.SamplesA, diff.SamplesB)
	}
	reportDiff(diff)

	if *spectral {
		a := wavcompat.Downmix(ref, refChannels)
		b := wavcompat.Downmix(cand, candChannels)
		rmseDB, err := analysis.SpectralRMSEDB(a, b)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing spectrum: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Spectral RMSE: %.2f dB  (similarity %.3f)\n", rmseDB, analysis.Similarity(rmseDB))
	}

	if !diff.Identical() {
		os.Exit(1)
	}
}

func reportDiff(diff analysis.Diff) {
	if diff.Identical() {
		fmt.Println("Files are identical!")
		return
	}
	thresholds := make([]float64, 0, len(diff.Exceeding))
	for th := range diff.Exceeding {
		thresholds = append(thresholds, th)
	}
	sort.Float64s(thresholds)
	for _, th := range thresholds {
		if n := diff.Exceeding[th]; n > 0 {
			fmt.Printf("Number of samples (> %g): %d\n", th, n)
		}
	}
}
