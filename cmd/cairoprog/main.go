package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "scan":
		err = cmdScan(os.Args[2:])
	case "hints":
		err = cmdHints(os.Args[2:])
	case "identifiers":
		err = cmdIdentifiers(os.Args[2:])
	case "disasm":
		err = cmdDisasm(os.Args[2:])
	case "graph":
		err = cmdGraph(os.Args[2:])
	case "check":
		err = cmdCheck(os.Args[2:])
	case "inspect":
		err = cmdInspect(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		log.Error("Command failed", "cmd", os.Args[1], "err", err)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	lvl := log.LevelInfo
	if verbose {
		lvl = log.LevelDebug
	}
	useColor := os.Getenv("NO_COLOR") == ""
	if fi, err := os.Stderr.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		useColor = false
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor)))
}

func usage() {
	fmt.Fprintf(os.Stderr, `cairoprog - compiled Cairo program loader and inspector

Usage:
  cairoprog scan        --in <path> [--json] [--out <dir>]   Load and summarize a program
  cairoprog hints       --in <path> [--pc <n>] [--json]      List hints by pc
  cairoprog identifiers --in <path> [--type <t>] [--json]    List identifiers and constants
  cairoprog disasm      --in <path> [--out <dir>]            Disassemble bytecode
  cairoprog graph       --in <path> --out <dir>              Write call graph and CFG as DOT
  cairoprog check       --in <path>                          Report structural problems
  cairoprog inspect     --in <path>                          Interactive inspector

Flags:
  --in <path>        Compiled program JSON (or contract class with --casm)
  --casm             Input is a compiled contract class
  --entry <name>     Entrypoint function under __main__
  --strict           Fail on first malformed entry
  --max-steps <n>    Disassembly cap in words
  --v                Debug logging
`)
}
