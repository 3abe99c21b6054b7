package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/solheim-studio/heimdall/internal/adapters/cli"
	"github.com/solheim-studio/heimdall/internal/harness"
)

func main() {
	output := cli.NewOutput()

	addr := "127.0.0.1:8199"
	var title string
	var modulesDir string

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if os.Args[1] == "--help" || os.Args[1] == "-h" {
		printUsage()
		os.Exit(0)
	}

	argIdx := 1
	for argIdx < len(os.Args) {
		arg := os.Args[argIdx]

		if arg == "--addr" {
			if argIdx+1 >= len(os.Args) {
				output.PrintHeader("Heimdall Harness")
				output.PrintError("--addr requires a value")
				os.Exit(1)
			}
			addr = os.Args[argIdx+1]
			argIdx += 2
			continue
		}

		if arg == "--title" {
			if argIdx+1 >= len(os.Args) {
				output.PrintHeader("Heimdall Harness")
				output.PrintError("--title requires a value")
				os.Exit(1)
			}
			title = os.Args[argIdx+1]
			argIdx += 2
			continue
		}

		if modulesDir == "" && !isFlag(arg) {
			modulesDir = arg
		}
		argIdx++
	}

	if modulesDir == "" {
		printUsage()
		os.Exit(1)
	}

	info, err := os.Stat(modulesDir)
	if err != nil || !info.IsDir() {
		output.PrintHeader("Heimdall Harness")
		output.PrintError("Module directory not found: %s", modulesDir)
		os.Exit(1)
	}

	handler, err := harness.NewHandler(os.DirFS(modulesDir), harness.Options{Title: title})
	if err != nil {
		output.PrintHeader("Heimdall Harness")
		output.PrintError("%v", err)
		os.Exit(1)
	}

	output.PrintHeader("Heimdall Harness")
	output.PrintStep("Serving modules from %s", modulesDir)
	output.PrintSuccess("Listening on http://%s", addr)
	output.PrintStep("Point HEIMDALL_BASE_URL at this address")

	if err := http.ListenAndServe(addr, handler); err != nil {
		output.PrintError("%v", err)
		os.Exit(1)
	}
}

func isFlag(arg string) bool {
	return len(arg) > 0 && arg[0] == '-'
}

func printUsage() {
	output := cli.NewOutput()
	output.PrintHeader("Heimdall Harness")
	fmt.Println()
	fmt.Println("Usage: heimdall-harness [options] <modules-dir>")
	fmt.Println()
	fmt.Println("Serves the harness document and a module tree for render sessions.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --addr <host:port>  Listen address. Default: 127.0.0.1:8199")
	fmt.Println("  --title <name>      Document title")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  heimdall-harness ./fixtures")
	fmt.Println("  heimdall-harness --addr 127.0.0.1:9000 ./dist/instrumented")
}
