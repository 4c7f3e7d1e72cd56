package main

import (
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/nicad/duckdb-file-tools/internal/codec"
	"github.com/spf13/cobra"
)

func compressCmd(a *app) *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "compress <in> <out>",
		Short: "Compress a file with gzip, zstd or lz4",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transform(cmd, "compress", args[0], args[1], algorithm)
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", string(codec.Gzip), "Codec: gzip, zstd, lz4")
	return cmd
}

func decompressCmd(a *app) *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "decompress <in> <out>",
		Short: "Decompress a file, detecting the codec unless one is given",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transform(cmd, "decompress", args[0], args[1], algorithm)
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Codec: gzip, zstd, lz4 (default: detect)")
	return cmd
}

// transform runs a blob-to-blob scalar over a file
func (a *app) transform(cmd *cobra.Command, name, in, out string, extra ...any) error {
	data, err := a.readInput(cmd, in)
	if err != nil {
		return err
	}

	f, err := a.registry.Scalar(name)
	if err != nil {
		return err
	}
	v, err := f.Call(cmd.Context(), append([]any{data}, extra...)...)
	if err != nil {
		return err
	}
	if err := writeOutput(out, v); err != nil {
		return err
	}

	if out != "-" {
		size := 0
		if b, ok := v.([]byte); ok {
			size = len(b)
		}
		color.New(color.FgHiBlack).Fprintf(cmd.ErrOrStderr(), "%s: %s -> %s (%s -> %s)\n",
			name, in, out, humanize.IBytes(uint64(len(data))), humanize.IBytes(uint64(size)))
	}
	return nil
}
