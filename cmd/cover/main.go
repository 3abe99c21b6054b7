package main

import (
	"fmt"
	"os"

	"github.com/solheim-studio/heimdall/internal/adapters/cli"
	"github.com/solheim-studio/heimdall/internal/adapters/fs"
	"github.com/solheim-studio/heimdall/internal/config"
	"github.com/solheim-studio/heimdall/internal/types"
	"github.com/solheim-studio/heimdall/internal/usecase"
)

func main() {
	output := cli.NewOutput()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if os.Args[1] == "--help" || os.Args[1] == "-h" {
		printUsage()
		os.Exit(0)
	}

	outDir := "coverage"
	formats := []types.ReportFormat{types.FormatJSON, types.FormatText, types.FormatLCOV}
	var snapshots []string

	argIdx := 1
	for argIdx < len(os.Args) {
		arg := os.Args[argIdx]

		if arg == "--out" {
			if argIdx+1 >= len(os.Args) {
				output.PrintHeader("Heimdall Cover")
				output.PrintError("--out requires a value")
				os.Exit(1)
			}
			outDir = os.Args[argIdx+1]
			argIdx += 2
			continue
		}

		if arg == "--formats" {
			if argIdx+1 >= len(os.Args) {
				output.PrintHeader("Heimdall Cover")
				output.PrintError("--formats requires a value")
				os.Exit(1)
			}
			parsed, err := config.ParseFormats(os.Args[argIdx+1])
			if err != nil {
				output.PrintHeader("Heimdall Cover")
				output.PrintError("%v", err)
				os.Exit(1)
			}
			formats = parsed
			argIdx += 2
			continue
		}

		if !isFlag(arg) {
			snapshots = append(snapshots, arg)
		}
		argIdx++
	}

	if len(snapshots) == 0 {
		printUsage()
		os.Exit(1)
	}

	fsAdapter := fs.NewOSFileSystem()
	service := usecase.NewCoverService(fsAdapter, output)

	result := service.MergeSnapshots(usecase.CoverInput{
		SnapshotPaths: snapshots,
		OutDir:        outDir,
		Formats:       formats,
	})
	if result.Error != nil {
		output.PrintError("%v", result.Error)
		os.Exit(1)
	}
}

func isFlag(arg string) bool {
	return len(arg) > 0 && arg[0] == '-'
}

func printUsage() {
	output := cli.NewOutput()
	output.PrintHeader("Heimdall Cover")
	fmt.Println()
	fmt.Println("Usage: heimdall-cover [options] <snapshot.json> [snapshot.json ...]")
	fmt.Println()
	fmt.Println("Merges saved coverage snapshots and writes combined reports.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --out <dir>           Report directory. Default: coverage")
	fmt.Println("  --formats <list>      Comma-separated formats (json, text, lcov). Default: all")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  heimdall-cover run-a/coverage-final.json run-b/coverage-final.json")
	fmt.Println("  heimdall-cover --out merged --formats json,lcov shard-*.json")
}
