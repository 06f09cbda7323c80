// Command analyze sends a netlist file to the analysis service and prints
// the report.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"circuit-sketch/internal/analysis"
	"circuit-sketch/internal/config"
	"circuit-sketch/internal/logging"
	"circuit-sketch/internal/netlist"
	"circuit-sketch/internal/transcript"
	"circuit-sketch/internal/version"
)

func main() {
	logging.FromEnv()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "settings file (default: user config dir)")
	framed := fs.Bool("framed", false, "wrap the netlist in a title line and .end")
	title := fs.String("title", netlist.DefaultTitle, "title line used with -framed")
	health := fs.Bool("health", false, "only check that the service is up")
	example := fs.String("example", "", "analyze a built-in circuit: "+strings.Join(exampleNames(), ", "))
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.About("analyze"))
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load settings: %v\n", err)
		return 1
	}

	client, err := analysis.NewClient(cfg.Service)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid service settings: %v\n", err)
		return 1
	}

	ctx := context.Background()
	if *health {
		if err := client.Health(ctx); err != nil {
			fmt.Fprintln(stdout, analysis.ErrorLine(err))
			return 1
		}
		fmt.Fprintf(stdout, "%s is healthy\n", cfg.Service.BaseURL)
		return 0
	}

	var text string
	switch {
	case *example != "" && fs.NArg() == 0:
		build, ok := examples[*example]
		if !ok {
			fmt.Fprintf(stderr, "Unknown example %q, want one of: %s\n", *example, strings.Join(exampleNames(), ", "))
			return 2
		}
		text = build().String()
	case *example == "" && fs.NArg() == 1:
		text, err = readInput(fs.Arg(0), stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to read netlist: %v\n", err)
			return 1
		}
		if *framed {
			text = netlist.Frame(*title, text)
		}
	default:
		fmt.Fprintln(stderr, "Usage: analyze [-config f] [-framed] [-title t] netlist.net|-")
		fmt.Fprintln(stderr, "       analyze [-config f] -example name")
		return 2
	}

	for _, issue := range netlist.Lint(text) {
		fmt.Fprintf(stderr, "warning: %s\n", issue)
	}

	slog.Debug("sending netlist", slog.String("url", cfg.Service.URL()), slog.Int("bytes", len(text)))
	res, err := client.Analyze(ctx, text)
	if err != nil {
		fmt.Fprintln(stdout, analysis.ErrorLine(err))
		return 1
	}

	report := transcript.Parse(res.Output)
	fmt.Fprint(stdout, report.View(cfg.Report.StatisticsLimit).String())
	if res.DiagramURL != "" {
		fmt.Fprintf(stdout, "\nDiagram: %s\n", res.DiagramURL)
	}
	return 0
}

// readInput reads path, or stdin for "-", without the trailing newline.
func readInput(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"), nil
}
