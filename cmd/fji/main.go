// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ezrec/flipjump/emulator"
)

var rootCmd = &cobra.Command{
	Use:   "fji [flags] file.fjm",
	Short: "Flip Jump Interpreter",
	Long:  "Runs a flip-jump memory image, with standard input and output as its I/O channel.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		silent, _ := cmd.Flags().GetBool("silent")
		verbose, _ := cmd.Flags().GetBool("verbose")

		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		os.Exit(run(args[0], silent, verbose))
	},
}

func run(path string, silent bool, verbose bool) int {
	inf, err := os.Open(path)
	if err != nil {
		log.Errorf("Can't open file %v: %v", path, err)
		return 1
	}
	defer inf.Close()

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Silent = silent
	emu.Tape.Input = bufio.NewReader(os.Stdin)
	emu.Tape.Output = stdout

	err = emu.Load(inf)
	if err != nil {
		log.Errorf("%v: %v", path, err)
		return 1
	}

	err = emu.Run()
	if err != nil {
		stdout.Flush()
		log.Errorf("%v: %v", path, err)
		return 1
	}

	if !silent {
		report := emu.Report()
		if term.IsTerminal(int(os.Stdout.Fd())) {
			report = "\n" + report
		}
		fmt.Fprintln(stdout, report)
	}

	return 0
}

func init() {
	rootCmd.Flags().BoolP("silent", "s", false, "don't show run times")
	rootCmd.Flags().BoolP("verbose", "v", false, "increase logging verbosity")
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
