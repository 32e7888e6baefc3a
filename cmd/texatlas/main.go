package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/cmcpasserby/texatlas"
	"github.com/disintegration/imaging"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	version = "1.0.0"
)

type rootConfig struct {
	verbose     bool
	concurrency int
}

func (c *rootConfig) options() []texatlas.Option {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return []texatlas.Option{
		texatlas.WithLogger(logger),
		texatlas.WithConcurrency(c.concurrency),
	}
}

func main() {
	var conf rootConfig

	var (
		rootFlagSet  = flag.NewFlagSet("texatlas", flag.ExitOnError)
		versionFlag  = rootFlagSet.Bool("version", false, "prints texatlas's version")
		_            = rootFlagSet.String("config", "", "config file (optional)")
		extractFlags = flag.NewFlagSet("texatlas extract", flag.ExitOnError)
		extractOut   = extractFlags.String("o", ".", "output directory")
		packFlags    = flag.NewFlagSet("texatlas pack", flag.ExitOnError)
		packOut      = packFlags.String("o", "", "output atlas file (default DIR"+texatlas.Ext+")")
		unpackFlags  = flag.NewFlagSet("texatlas unpack", flag.ExitOnError)
		unpackOut    = unpackFlags.String("o", "", "output directory (default FILE without extension)")
		spineFlags   = flag.NewFlagSet("texatlas import-spine", flag.ExitOnError)
		spineOut     = spineFlags.String("o", "", "output atlas file (required)")
	)
	rootFlagSet.BoolVar(&conf.verbose, "v", false, "log debug output")
	rootFlagSet.IntVar(&conf.concurrency, "j", 1, "pages processed at once, 0 for one per CPU")

	info := &ffcli.Command{
		Name:       "info",
		ShortUsage: "texatlas info FILE",
		ShortHelp:  "print the pages and textures of an atlas",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected 1 arg got %d", len(args))
			}
			res, err := texatlas.Load(args[0], conf.options()...)
			if err != nil {
				return err
			}
			printAtlas(res)
			return nil
		},
	}

	extract := &ffcli.Command{
		Name:       "extract",
		ShortUsage: "texatlas extract [-o DIR] FILE",
		ShortHelp:  "write every texture to DIR/<page>/<texture>.png",
		FlagSet:    extractFlags,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected 1 arg got %d", len(args))
			}
			res, err := texatlas.Load(args[0], conf.options()...)
			if err != nil {
				return err
			}
			return extractTextures(res.Atlas, *extractOut)
		},
	}

	pack := &ffcli.Command{
		Name:       "pack",
		ShortUsage: "texatlas pack [-o FILE] DIR",
		ShortHelp:  "build an atlas file from <page>.json and <page>.png pairs in DIR",
		FlagSet:    packFlags,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected 1 arg got %d", len(args))
			}
			out := *packOut
			if out == "" {
				out = filepath.Clean(args[0]) + texatlas.Ext
			}
			opts := conf.options()
			res, err := texatlas.LoadDir(args[0], opts...)
			if err != nil {
				return err
			}
			if err := texatlas.Save(out, res.Atlas, opts...); err != nil {
				return err
			}
			slog.Info("packed", "pages", res.Atlas.PageCount(), "to", out)
			return nil
		},
	}

	unpack := &ffcli.Command{
		Name:       "unpack",
		ShortUsage: "texatlas unpack [-o DIR] FILE",
		ShortHelp:  "write the pages of an atlas file as <page>.json and <page>.png pairs",
		FlagSet:    unpackFlags,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected 1 arg got %d", len(args))
			}
			out := *unpackOut
			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			}
			opts := conf.options()
			res, err := texatlas.Load(args[0], opts...)
			if err != nil {
				return err
			}
			if err := texatlas.SaveDir(out, res.Atlas, opts...); err != nil {
				return err
			}
			slog.Info("unpacked", "pages", res.Atlas.PageCount(), "to", out)
			return nil
		},
	}

	importSpine := &ffcli.Command{
		Name:       "import-spine",
		ShortUsage: "texatlas import-spine -o FILE SPINE_ATLAS",
		ShortHelp:  "convert a Spine atlas and its page images into an atlas file",
		FlagSet:    spineFlags,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected 1 arg got %d", len(args))
			}
			if *spineOut == "" {
				return errors.New("missing output file, use -o")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			opts := conf.options()
			atlas, err := texatlas.ImportSpine(f, os.DirFS(filepath.Dir(args[0])), opts...)
			if err != nil {
				return err
			}
			return texatlas.Save(*spineOut, atlas, opts...)
		},
	}

	root := &ffcli.Command{
		Name:        "texatlas",
		ShortUsage:  "texatlas [flags] <subcommand> [args]",
		ShortHelp:   "Tool for inspecting and converting texture atlas files",
		FlagSet:     rootFlagSet,
		Options:     []ff.Option{ff.WithEnvVarPrefix("TEXATLAS"), ff.WithConfigFileFlag("config"), ff.WithConfigFileParser(ff.PlainParser), ff.WithAllowMissingConfigFile(true)},
		Subcommands: []*ffcli.Command{info, extract, pack, unpack, importSpine},
		Exec: func(ctx context.Context, args []string) error {
			if *versionFlag {
				fmt.Printf("texatlas version %s\n", version)
				return nil
			}
			return flag.ErrHelp
		},
	}

	if err := root.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func printAtlas(res *texatlas.Result) {
	for _, page := range res.Atlas.Pages() {
		fmt.Printf("%s: %dx%d %v %v, %d textures\n",
			page.Name(), page.Width(), page.Height(), page.ColorType(), page.Origin(), page.TextureCount())
		if w := res.Warning(page.Name()); w != texatlas.NoWarnings {
			fmt.Printf("  warning: %v\n", w)
		}
		for i, name := range page.TextureNames() {
			box, _ := page.ByIndex(i)
			uv, _ := page.ByIndexUV(i)
			fmt.Printf("  %3d %-24s %v  uv %v\n", i, name, box, uv)
		}
	}
}

// checkExtractPaths rejects page and texture names that would leave the
// output folder once joined onto it.
func checkExtractPaths(atlas *texatlas.MultiPageAtlas) error {
	for _, page := range atlas.Pages() {
		if !fs.ValidPath(page.Name()) {
			return fmt.Errorf("invalid page name %q", page.Name())
		}
		for _, name := range page.TextureNames() {
			if !fs.ValidPath(name) {
				return fmt.Errorf("page %q: invalid texture name %q", page.Name(), name)
			}
		}
	}
	return nil
}

func extractTextures(atlas *texatlas.MultiPageAtlas, out string) error {
	if err := checkExtractPaths(atlas); err != nil {
		return err
	}

	var count int
	for _, page := range atlas.Pages() {
		dir := filepath.Join(out, filepath.FromSlash(page.Name()))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create folder %q: %w", dir, err)
		}
		for _, name := range page.TextureNames() {
			img, err := page.TextureImage(name)
			if err != nil {
				return err
			}
			dest := filepath.Join(dir, filepath.FromSlash(name)+".png")
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return fmt.Errorf("unable to create folder %q: %w", filepath.Dir(dest), err)
			}
			if err := imaging.Save(img, dest); err != nil {
				return fmt.Errorf("could not save texture %q: %w", dest, err)
			}
			count++
		}
	}
	slog.Info("extracted", "textures", count, "to", out)
	return nil
}
