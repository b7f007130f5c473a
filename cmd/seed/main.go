// Package main writes the deterministic synthetic dataset to a CSV file so
// the server can be run against a real file.
//
// Usage:
//
//	go run ./cmd/seed --out bestsellers.csv --seed 42
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/listenupapp/bestsellers/internal/dataset"
)

func main() {
	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the seed command. An output path of "-" writes to stdout.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var (
		out   string
		seed  uint64
		force bool
	)

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Write the synthetic bestseller dataset as CSV",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			records := dataset.Synthesize(seed)

			if out == "-" {
				return dataset.WriteCSV(stdout, records)
			}

			if !force {
				if _, err := os.Stat(out); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", out)
				}
			}

			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create %s: %w", dir, err)
				}
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := dataset.WriteCSV(f, records); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			fmt.Fprintf(stderr, "wrote %d records to %s (seed %d)\n", len(records), out, seed)
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&out, "out", "o", "bestsellers.csv", "Output CSV path, or - for stdout")
	flags.Uint64Var(&seed, "seed", dataset.DefaultSeed, "Generator seed")
	flags.BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
