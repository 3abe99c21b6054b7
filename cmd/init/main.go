package main

import (
	"fmt"
	"os"

	"github.com/solheim-studio/heimdall/internal/adapters/cli"
	"github.com/solheim-studio/heimdall/internal/adapters/fs"
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

	var projectDir string

	argIdx := 1
	for argIdx < len(os.Args) {
		arg := os.Args[argIdx]

		if !isFlag(arg) && projectDir == "" {
			projectDir = arg
		}
		argIdx++
	}

	if projectDir == "" {
		printUsage()
		os.Exit(1)
	}

	fsAdapter := fs.NewOSFileSystem()
	service := usecase.NewScaffoldService(fsAdapter, output)

	result := service.InitProject(usecase.ScaffoldInput{
		ProjectDir: projectDir,
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
	output.PrintHeader("Heimdall Init")
	fmt.Println()
	fmt.Println("Usage: heimdall-init <directory>")
	fmt.Println()
	fmt.Println("Scaffolds a harness workspace: configuration file, module")
	fmt.Println("directory, and import map.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  heimdall-init widget-suite")
	fmt.Println("  heimdall-init test/harness")
}
