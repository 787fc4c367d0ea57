package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-synth/pcm"
	"github.com/cwbudde/algo-synth/score"
)

func main() {
	scorePath := flag.String("score", "", "Input score text file")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	if *scorePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -score is required")
		flag.Usage()
		os.Exit(1)
	}

	fmt.Printf("Compiling score %s...\n", *scorePath)
	out, err := score.CompileFile(*scorePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error compiling score: %v\n", err)
		os.Exit(1)
	}

	if err := out.Save(*output); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully wrote %s (%d frames, %.2fs)\n",
		*output, out.Frames(), float64(out.Frames())/float64(pcm.SampleRate))
}
