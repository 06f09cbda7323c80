// Command report renders a saved solver transcript without the service.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"circuit-sketch/internal/config"
	sketchimage "circuit-sketch/internal/image"
	"circuit-sketch/internal/logging"
	"circuit-sketch/internal/transcript"
	"circuit-sketch/internal/version"

	"gonum.org/v1/gonum/mat"
)

func main() {
	logging.FromEnv()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	defaults := config.Default().Report

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	limit := fs.Int("limit", defaults.StatisticsLimit, "netlist report lines to show")
	chartPath := fs.String("chart", "", "write a PNG bar chart of the solutions")
	diagramPath := fs.String("diagram", "", "saved circuit diagram to place above the chart")
	width := fs.Int("width", defaults.ChartWidth, "chart width in pixels")
	height := fs.Int("height", defaults.ChartHeight, "chart height in pixels")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.About("report"))
		return 0
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: report [-limit n] [-chart out.png] [-diagram saved.png] transcript.txt")
		return 2
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Failed to read transcript: %v\n", err)
		return 1
	}

	report := transcript.Parse(string(data))
	if report.Empty() {
		fmt.Fprintln(stderr, "Transcript has no recognised sections")
	}
	fmt.Fprint(stdout, report.View(*limit).String())

	var diagram *sketchimage.Layer
	if *diagramPath != "" {
		diagram, err = sketchimage.Load(*diagramPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load diagram: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "\nDiagram: %s (%dx%d %s)\n", diagram.Source, diagram.Width(), diagram.Height(), diagram.Format)
	}

	v, err := report.SolutionVector()
	if err != nil {
		if *chartPath != "" {
			fmt.Fprintf(stderr, "No chart: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Fprintf(stdout, "\nSolution vector:\n%.4v\n", mat.Formatted(v, mat.Prefix("")))
	if st, err := transcript.SolutionStats(v); err == nil {
		fmt.Fprintf(stdout, "Summary: %s\n", st)
	}

	if *chartPath == "" {
		return 0
	}
	if err := writeChart(*chartPath, v, diagram, *width, *height); err != nil {
		fmt.Fprintf(stderr, "Failed to write chart: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "\nChart written to %s\n", *chartPath)
	return 0
}

// writeChart writes the solution chart, with the diagram fitted to the same
// width above it when one is given.
func writeChart(path string, v *mat.VecDense, diagram *sketchimage.Layer, width, height int) error {
	chart, err := transcript.ChartVector(v, width, height)
	if err != nil {
		return err
	}
	var img image.Image = chart
	if prepared := diagram.Prepare(width, 0, sketchimage.DefaultBackground); prepared != nil {
		img = sketchimage.Stack(prepared, chart, sketchimage.DefaultBackground)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
