package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"xmc-go/packages/converter"
	"xmc-go/packages/converter/diagnostics"
	"xmc-go/packages/converter/mappings"
	"xmc-go/packages/converter/writer"
	"xmc-go/packages/converter/xaml"
)

type convertOptions struct {
	out                string
	mappingFile        string
	targetNamespace    string
	preserveFormatting bool
	sortAttributes     bool
	annotate           bool
	watch              bool
	indent             int
	workers            int
}

func newConvertCmd() *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert [files or directories]",
		Short: "Convert XAML files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file or directory (default: alongside input with .axaml extension)")
	cmd.Flags().StringVarP(&opts.mappingFile, "mappings", "m", "", "YAML mapping file layered over the built-in table")
	cmd.Flags().StringVar(&opts.targetNamespace, "target-namespace", "", "override the default namespace on root elements")
	cmd.Flags().BoolVar(&opts.preserveFormatting, "preserve-formatting", true, "replay source whitespace instead of reindenting")
	cmd.Flags().BoolVar(&opts.sortAttributes, "sort-attributes", false, "order attributes alphabetically")
	cmd.Flags().BoolVar(&opts.annotate, "annotate", false, "append a conversion report comment to each output")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "watch inputs and reconvert on change")
	cmd.Flags().IntVar(&opts.indent, "indent", 4, "indent width where no formatting hint applies")
	cmd.Flags().IntVar(&opts.workers, "workers", 4, "number of files converted in parallel")
	return cmd
}

func runConvert(opts *convertOptions, args []string) error {
	repo, err := loadRepository(opts.mappingFile)
	if err != nil {
		return err
	}

	files, err := collectInputs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .xaml files found in %s", strings.Join(args, ", "))
	}

	if err := convertAll(opts, repo, files); err != nil {
		return err
	}
	if opts.watch {
		return watchAndConvert(opts, repo, files)
	}
	return nil
}

func convertAll(opts *convertOptions, repo mappings.Repository, files []string) error {
	var g errgroup.Group
	g.SetLimit(opts.workers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			return convertFile(opts, repo, file)
		})
	}
	return g.Wait()
}

func convertFile(opts *convertOptions, repo mappings.Repository, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	conv := converter.New(converter.Config{
		Repository: repo,
		Writer: writer.Options{
			PreserveFormatting: opts.preserveFormatting,
			IndentSize:         opts.indent,
			SortAttributes:     opts.sortAttributes,
			TargetNamespace:    opts.targetNamespace,
			EmitComments:       true,
			Annotate:           opts.annotate,
		},
	})

	result, err := conv.Convert(string(source), path)
	if err != nil {
		return err
	}
	reportDiagnostics(path, result)

	outPath := outputPath(opts, path)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(result.Output), 0o644); err != nil {
		return err
	}
	named := &xaml.NamedElementCollector{}
	bindings := &xaml.BindingCollector{}
	resources := &xaml.ResourceCollector{}
	for _, v := range []xaml.Visitor{named, bindings, resources} {
		xaml.WalkDocument(result.Document, v)
	}
	slog.Info("converted", "in", path, "out", outPath,
		"transformations", len(result.Trace),
		"named", len(named.Elements),
		"bindings", len(bindings.Bindings),
		"resources", len(resources.References),
		"warnings", len(result.Document.Diagnostics.Warnings()))
	return nil
}

func reportDiagnostics(path string, result *converter.Result) {
	for _, d := range result.Document.Diagnostics.All() {
		switch d.Severity {
		case diagnostics.SeverityError:
			slog.Error(d.Message, "file", path, "code", d.Code, "line", d.Line)
		case diagnostics.SeverityWarning:
			slog.Warn(d.Message, "file", path, "code", d.Code, "line", d.Line)
		default:
			slog.Debug(d.Message, "file", path, "code", d.Code, "line", d.Line)
		}
	}
}

func outputPath(opts *convertOptions, in string) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ".axaml"
	switch {
	case opts.out == "":
		return filepath.Join(filepath.Dir(in), base)
	case strings.HasSuffix(opts.out, ".axaml") || strings.HasSuffix(opts.out, ".xaml"):
		return opts.out
	default:
		return filepath.Join(opts.out, base)
	}
}

func loadRepository(path string) (mappings.Repository, error) {
	base := mappings.WpfToAvalonia()
	if path == "" {
		return base, nil
	}
	return mappings.LoadRepository(path, base)
}

func collectInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".xaml") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func watchAndConvert(opts *convertOptions, repo mappings.Repository, files []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dirs := map[string]bool{}
	watched := map[string]bool{}
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	// Watch directories, not files: editors replace files on save, which
	// drops per-file watches.
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}
	slog.Info("watching for changes", "files", len(watched))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if err := convertFile(opts, repo, event.Name); err != nil {
				slog.Error("reconvert failed", "file", event.Name, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "error", err)
		}
	}
}
