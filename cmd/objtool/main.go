// Command objtool inspects and prepares OBJ models for the visualizer.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Faultbox/hallucination/internal/fur"
	"github.com/Faultbox/hallucination/pkg/obj"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "objtool",
		Short: "OBJ model utilities",
		Long: `objtool - OBJ model utilities

Inspect models, strip them down to positions and triangles, and dry-run
hair placement before starting the visualizer.`,
		SilenceUsage: true,
	}
	root.AddCommand(newInfoCmd(), newSimplifyCmd(), newScatterCmd())
	return root
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <model.obj>",
		Short: "Display model information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), args[0])
		},
	}
}

func runInfo(w io.Writer, path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	m, err := obj.Load(path)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	b := m.Bounds
	size := b.Max.Sub(b.Min)
	center := b.Center()

	fmt.Fprintf(w, "File:       %s\n", filepath.Base(path))
	fmt.Fprintf(w, "Size:       %.2f KB\n", float64(st.Size())/1024)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Vertices:   %d\n", len(m.Vertices)/3)
	fmt.Fprintf(w, "Triangles:  %d\n", m.TriangleCount())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Bounds:     (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	fmt.Fprintf(w, "Extent:     %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(w, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
	return nil
}

func newSimplifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simplify <in.obj> <out.obj>",
		Short: "Keep only vertex positions and triangle faces",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimplify(args[0], args[1])
		},
	}
}

func runSimplify(inPath, outPath string) (err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	return obj.Simplify(in, out)
}

type scatterFlags struct {
	seed        uint64
	separation  float32
	maxAttempts int
}

func newScatterCmd() *cobra.Command {
	defaults := fur.DefaultOptions()
	var f scatterFlags
	cmd := &cobra.Command{
		Use:   "scatter <model.obj> <count>",
		Short: "Dry-run hair placement and report the work it took",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("count %q: %w", args[1], err)
			}
			return runScatter(cmd.OutOrStdout(), args[0], n, f)
		},
	}
	cmd.Flags().Uint64Var(&f.seed, "seed", 1, "Random seed (0 = clock)")
	cmd.Flags().Float32Var(&f.separation, "separation", defaults.MinSeparation, "Minimum distance between hairs")
	cmd.Flags().IntVar(&f.maxAttempts, "max-attempts", defaults.MaxAttempts, "Consecutive rejections before giving up")
	return cmd
}

func runScatter(w io.Writer, path string, n int, f scatterFlags) error {
	m, err := obj.Load(path)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	opts := fur.DefaultOptions()
	opts.MinSeparation = f.separation
	opts.MaxAttempts = f.maxAttempts
	hairs := fur.New(fur.NewSampler(fur.NewRand(f.seed), opts))

	start := time.Now()
	err = hairs.GenerateRandomHairs(m, n)
	took := time.Since(start)
	if err != nil && !errors.Is(err, fur.ErrPlacementExhausted) {
		return err
	}

	stats := hairs.LastStats()
	fmt.Fprintf(w, "Placed:     %d of %d\n", stats.Placed, n)
	fmt.Fprintf(w, "Attempts:   %d\n", stats.Attempts)
	fmt.Fprintf(w, "Rejections: %d\n", stats.Rejections)
	fmt.Fprintf(w, "Took:       %s\n", took.Round(time.Millisecond))
	if err != nil {
		fmt.Fprintf(w, "Exhausted:  %v\n", err)
	}
	return nil
}
