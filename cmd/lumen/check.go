package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumen-lang/lumen/internal/engine"
	"github.com/lumen-lang/lumen/internal/project"
)

const sourceExt = ".lum"

func newCheckCmd() *cobra.Command {
	var manifestDir string

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Analyze a project and report diagnostics",
		Long: "Loads lumen.yaml from the project root (or uses defaults when " +
			"absent), registers every .lum file under the source directories " +
			"and reports parse, type and suggestion diagnostics.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := manifestDir
			if len(args) == 1 {
				dir = args[0]
			}
			return runCheck(cmd, dir)
		},
	}
	cmd.Flags().StringVarP(&manifestDir, "project", "p", ".", "project root containing "+project.ManifestName)
	return cmd
}

func runCheck(cmd *cobra.Command, dir string) error {
	cfg, err := project.LoadOrDefault(dir)
	if err != nil {
		return err
	}

	session := engine.NewSession()
	if cfg.CacheDir != "" {
		cache, err := engine.NewSnapshotCache(filepath.Join(dir, cfg.CacheDir))
		if err != nil {
			return err
		}
		session.UseCache(cache)
	}

	count := 0
	for _, srcDir := range cfg.SourceDirs {
		n, err := registerTree(session, filepath.Join(dir, srcDir))
		if err != nil {
			return err
		}
		count += n
	}
	if count == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no %s files found\n", cfg.Name, sourceExt)
		return nil
	}

	results, err := session.DiagnoseAll(cmd.Context())
	if err != nil {
		return err
	}

	r := newRenderer(cmd.OutOrStdout(), cfg.MaxDiagnostics)
	for _, res := range results {
		for _, d := range res.Diagnostics {
			r.print(d)
		}
	}
	r.summary(cfg.Name, count)

	if r.errors > 0 {
		return fmt.Errorf("%d error(s)", r.errors)
	}
	return nil
}

// registerTree walks a source directory and registers every .lum file
// under its path relative to the project. A missing directory is not an
// error; the manifest default lists "src" even for trees that keep
// sources elsewhere.
func registerTree(session *engine.Session, root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, sourceExt) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		session.AddOrReplaceModule(path, string(data))
		count++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
