// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ezrec/flipjump/asm"
)

var rootCmd = &cobra.Command{
	Use:   "fjasm [flags] file.fj",
	Short: "Flip Jump Assembler",
	Long:  "Assembles flip-jump source text into a memory image for fji.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			output, _  = cmd.Flags().GetString("output")
			width, _   = cmd.Flags().GetUint16("width")
			version, _ = cmd.Flags().GetUint64("version")
			verbose, _ = cmd.Flags().GetBool("verbose")
		)

		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		source := args[0]
		if output == "" {
			output = strings.TrimSuffix(source, filepath.Ext(source)) + ".fjm"
		}

		inf, err := os.Open(source)
		if err != nil {
			log.Fatalf("%v: %v", source, err)
		}
		defer inf.Close()

		a := &asm.Assembler{Width: width, Version: version, Verbose: verbose}
		b, err := a.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", source, err)
		}

		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		_, err = b.Image().WriteTo(ouf)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	},
}

func init() {
	rootCmd.Flags().StringP("output", "o", "", "image to write (default: source with .fjm extension)")
	rootCmd.Flags().Uint16P("width", "w", 64, "word width in bits (8, 16, 32 or 64)")
	rootCmd.Flags().Uint64P("version", "V", 1, "image version (0 to 2)")
	rootCmd.Flags().BoolP("verbose", "v", false, "increase logging verbosity")
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
