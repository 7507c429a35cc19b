package main

import (
	"fmt"
	"os"

	"golang.design/x/hotkey/mainthread"

	"github.com/ironsheep/hextech-overlay/internal/ocr"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("hextech-overlay %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  Tesseract:  %s\n", ocr.Version())
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	// Global hotkeys need the main OS thread on macOS.
	code := 0
	mainthread.Init(func() { code = dispatch(os.Args[1:]) })
	os.Exit(code)
}

func usage() {
	fmt.Println("hextech-overlay - ARAM augment overlay")
	fmt.Println()
	fmt.Println("Usage: hextech-overlay [command] [-config file] [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run         Select a hero, then analyze on the hotkey (default)")
	fmt.Println("  calibrate   Draw the capture regions over a screenshot")
	fmt.Println("  inspect     Analyze a saved screenshot for one hero")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  HEXTECH_LOG_LEVEL=debug      Enable debug logging")
	fmt.Println("  HEXTECH_DATA_DIR=path        Directory holding the dataset files")
	fmt.Println()
	fmt.Println("Logs go to stderr; stdout carries the hero prompt.")
}

func dispatch(args []string) int {
	cmd := "run"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "run":
		return runCmd(args)
	case "calibrate":
		return calibrateCmd(args)
	case "inspect":
		return inspectCmd(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		return 2
	}
}
