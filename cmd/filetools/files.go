package main

import (
	"fmt"
	"os"

	"github.com/nicad/duckdb-file-tools/internal/filesystem"
	"github.com/spf13/cobra"
)

func statCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stat <path>...",
		Short: "Show metadata for each path, following symlinks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.pathRows(cmd.Context(), "file_stat", args)
			if err != nil {
				return err
			}
			return a.emit(t)
		},
	}
}

func hashCmd(a *app) *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "hash <path>...",
		Short: "Hash the content of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.pathRows(cmd.Context(), "file_hash", args, algorithm)
			if err != nil {
				return err
			}
			return a.emit(t)
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", string(filesystem.SHA256), "Digest: sha256, xxh64")
	return cmd
}

func partsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parts <path>...",
		Short: "Decompose path strings into drive, root, parent, name, stem and suffixes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.pathRows(cmd.Context(), "path_parts", args)
			if err != nil {
				return err
			}
			return a.emit(t)
		},
	}
}

// readInput loads a file through file_read_blob; NULL means unreadable
func (a *app) readInput(cmd *cobra.Command, path string) ([]byte, error) {
	f, err := a.registry.Scalar("file_read_blob")
	if err != nil {
		return nil, err
	}
	v, err := f.Call(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("cannot read %s", path)
	}
	return v.([]byte), nil
}

// writeOutput writes a scalar result to path; "-" writes to stdout
func writeOutput(path string, v any) error {
	if v == nil {
		return fmt.Errorf("no output produced for %s", path)
	}
	data, ok := v.([]byte)
	if !ok {
		data = []byte(fmt.Sprint(v))
	}
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
