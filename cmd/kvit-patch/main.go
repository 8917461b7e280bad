package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kvit-s/kvit-patch/internal/config"
	"github.com/kvit-s/kvit-patch/internal/logging"
	"github.com/kvit-s/kvit-patch/internal/patch"
	"github.com/kvit-s/kvit-patch/internal/provider"
	"github.com/kvit-s/kvit-patch/internal/renderer"
)

// Version info set by ldflags at build time
var (
	version    = "dev"
	commitHash = "dev"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	workdir := flag.String("C", "", "workspace root (overrides config)")
	logFile := flag.String("log", "", "log file path (empty to disable)")
	dryRun := flag.Bool("dry-run", false, "show what would change without writing files")
	preview := flag.Bool("preview", false, "stream a (possibly partial) patch from stdin and show the live preview")
	strict := flag.Bool("strict", false, "fail the whole patch on the first unmatched chunk")
	threshold := flag.Float64("threshold", 0, "similarity threshold override (0 = config default)")
	showVersion := flag.Bool("version", false, "show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s-%s\n", version, commitHash)
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *workdir != "" {
		cfg.Workspace.Root = *workdir
	}
	if *strict {
		cfg.Engine.Strict = true
	}
	if *threshold > 0 {
		cfg.Engine.SimilarityThreshold = *threshold
	}
	if *logFile != "" {
		cfg.Log.Path = *logFile
	}

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *preview {
		disk, err := provider.NewDisk(cfg.Workspace.Root)
		if err != nil {
			log.Fatalf("Workspace error: %v", err)
		}
		runPreview(ctx, logger, disk)
		return
	}

	text, err := readPatchText(flag.Args())
	if err != nil {
		log.Fatalf("Failed to read patch: %v", err)
	}
	if max := cfg.Engine.MaxPatchSizeKB * 1024; len(text) > max {
		log.Fatalf("Patch too large: %d bytes (limit %d KB)", len(text), cfg.Engine.MaxPatchSizeKB)
	}

	disk, err := provider.NewDisk(cfg.Workspace.Root)
	if err != nil {
		log.Fatalf("Workspace error: %v", err)
	}

	// Snapshot referenced files first so diffs can be rendered after apply
	// and the dry-run provider sees the same workspace state.
	before := map[string]string{}
	for _, path := range append(patch.IdentifyFilesNeeded(text), patch.IdentifyFilesAdded(text)...) {
		if content, exists, err := disk.ReadFile(path); err == nil && exists {
			before[path] = content
		}
	}

	engine := patch.NewEngine(logger)
	engine.SimilarityThreshold = cfg.Engine.SimilarityThreshold
	engine.Strict = cfg.Engine.Strict

	var prov provider.Provider = disk
	if *dryRun {
		prov = provider.NewMemory(before)
	}

	res, err := engine.Apply(ctx, prov, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "patch not applied: %v\n", err)
		os.Exit(1)
	}

	printResult(res, before)
	if *dryRun {
		fmt.Println("(dry run: no files were written)")
	}
}

// runPreview renders the streaming preview of a patch arriving on stdin. The
// preview lives in the provider's buffer only; nothing is written to disk.
func runPreview(ctx context.Context, logger *zap.Logger, disk *provider.Disk) {
	pv := patch.NewPreviewer(disk, logger)
	defer pv.Discard(ctx)

	var prefix []byte
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			prefix = append(prefix, buf[:n]...)
			pv.Feed(ctx, string(prefix))
		}
		if err != nil {
			break
		}
	}

	path, open := disk.OpenPath()
	if !open {
		fmt.Println("(no previewable action in input)")
		return
	}
	fmt.Printf("preview: %s\n", path)
	if pending, _ := disk.Pending(); pending != disk.OriginalContent() {
		if diff, err := renderer.UnifiedDiff(disk.OriginalContent(), pending, path); err == nil {
			fmt.Print(renderer.ColorizeDiff(diff))
		}
	}
}

func readPatchText(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func printResult(res *patch.Result, before map[string]string) {
	var created, modified, deleted int
	for _, path := range res.Order {
		fr := res.Files[path]
		switch {
		case fr.Deleted:
			deleted++
			if fr.MovePath != "" {
				fmt.Printf("renamed: %s -> %s\n", path, fr.MovePath)
			} else {
				fmt.Printf("deleted: %s\n", path)
			}
			continue
		case fr.Action == patch.ActionAdd:
			created++
		default:
			modified++
		}

		if fr.Content == nil {
			continue
		}
		old := before[path]
		diff, err := renderer.UnifiedDiff(old, *fr.Content, path)
		if err != nil || diff == "" {
			continue
		}
		fmt.Print(renderer.ColorizeDiff(diff))
		if hint, line, ok := renderer.IntralineHint(old, *fr.Content); ok {
			fmt.Printf("  %s:%d: %s\n", path, line, hint)
		}
	}

	warnings := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		warnings = append(warnings, w.String())
	}
	fmt.Println(renderer.Summary(created, modified, deleted, res.Fuzz, warnings))
}
