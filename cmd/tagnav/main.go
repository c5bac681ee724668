package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tagnav/internal/cache"
	"tagnav/internal/config"
	"tagnav/internal/logging"
	"tagnav/internal/navigator"
	"tagnav/internal/store"
)

var (
	rootCmd = &cobra.Command{
		Use:   "tagnav",
		Short: "Locate cursor-stop boundaries in JSX/TSX documents",
	}
	cfgPath  string
	dbPath   string
	navTags  bool
	navAttrs bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "Path to the config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the boundary store (SQLite); overrides config")

	for _, cmd := range []*cobra.Command{nextCmd, prevCmd} {
		cmd.Flags().BoolVar(&navTags, "tags", false, "Navigate tag boundaries")
		cmd.Flags().BoolVar(&navAttrs, "attrs", false, "Navigate attribute boundaries")
	}

	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(attrsCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
}

var tagsCmd = &cobra.Command{
	Use:   "tags <file>",
	Short: "Print tag boundary offsets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLocate(cmd.Context(), args[0], cache.KindTags)
	},
}

var attrsCmd = &cobra.Command{
	Use:   "attrs <file>",
	Short: "Print attribute boundary offsets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLocate(cmd.Context(), args[0], cache.KindAttributes)
	},
}

var nextCmd = &cobra.Command{
	Use:   "next <file> <offset>",
	Short: "Print the nearest boundary after an offset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFind(cmd.Context(), args, true)
	},
}

var prevCmd = &cobra.Command{
	Use:   "prev <file> <offset>",
	Short: "Print the nearest boundary before an offset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFind(cmd.Context(), args, false)
	},
}

// app bundles the configured cache, navigator and persistent store.
type app struct {
	cfg   *config.Config
	nav   *navigator.Navigator
	store *store.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.Log.Level)

	path := cfg.Store.Path
	if dbPath != "" {
		path = dbPath
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open boundary store: %w", err)
	}

	nav := navigator.New(cache.New(cfg.Cache.Capacity), navigator.WithLogger(logger))
	return &app{cfg: cfg, nav: nav, store: st}, nil
}

func (a *app) close() {
	a.store.Close()
}

// locate serves one boundary list, consulting the persistent store before
// computing and persisting fresh results.
func (a *app) locate(ctx context.Context, text []byte, kind cache.Kind) ([]int, error) {
	fingerprint := cache.Fingerprint(text)

	offsets, ok, err := a.store.Get(fingerprint, string(kind))
	if err != nil {
		return nil, err
	}
	if ok {
		a.nav.Seed(text, kind, offsets)
		return offsets, nil
	}

	switch kind {
	case cache.KindTags:
		offsets, err = a.nav.TagBoundaries(ctx, text)
	default:
		offsets, err = a.nav.AttributeBoundaries(ctx, text)
	}
	if err != nil {
		return nil, err
	}

	if err := a.store.Put(fingerprint, string(kind), offsets); err != nil {
		return nil, err
	}
	if err := a.store.Prune(a.cfg.Store.MaxRows); err != nil {
		return nil, err
	}
	return offsets, nil
}

func runLocate(ctx context.Context, path string, kind cache.Kind) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	offsets, err := a.locate(ctx, text, kind)
	if err != nil {
		return err
	}
	fmt.Println(formatOffsets(offsets))
	return nil
}

func runFind(ctx context.Context, args []string, forward bool) error {
	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	pos, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid offset %q: %w", args[1], err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	cats := a.categories()
	if cats.Tags {
		if _, err := a.locate(ctx, text, cache.KindTags); err != nil {
			return err
		}
	}
	if cats.Attributes {
		if _, err := a.locate(ctx, text, cache.KindAttributes); err != nil {
			return err
		}
	}

	var off int
	var found bool
	if forward {
		off, found, err = a.nav.Next(ctx, text, pos, cats)
	} else {
		off, found, err = a.nav.Prev(ctx, text, pos, cats)
	}
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("none")
		return nil
	}
	fmt.Println(off)
	return nil
}

// categories resolves the --tags/--attrs flags against the configured
// default of merging tag boundaries into attribute navigation.
func (a *app) categories() navigator.Categories {
	if !navTags && !navAttrs {
		return navigator.Categories{Tags: true, Attributes: true}
	}
	cats := navigator.Categories{Tags: navTags, Attributes: navAttrs}
	if cats.Attributes && a.cfg.Navigation.IncludeTagsWithAttributes {
		cats.Tags = true
	}
	return cats
}

func formatOffsets(offsets []int) string {
	if len(offsets) == 0 {
		return "none"
	}
	parts := make([]string, len(offsets))
	for i, off := range offsets {
		parts[i] = strconv.Itoa(off)
	}
	return strings.Join(parts, " ")
}
