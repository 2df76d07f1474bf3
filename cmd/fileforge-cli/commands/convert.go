package commands

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fileforge/fileforge/internal/bundle"
	"github.com/fileforge/fileforge/internal/convert"
	"github.com/fileforge/fileforge/internal/domain"
)

var (
	convertOutput string
	convertFormat string
)

var convertCmd = &cobra.Command{
	Use:   "convert <pair> <input>",
	Short: "Convert a local file through one of the conversion routes",
	Long: `Convert runs one conversion pair against a local file, e.g.:

  fileforge convert png-to-pdf scan.png
  fileforge convert pdf-to-png report.pdf -o pages.zip
  fileforge convert video-to-audio clip.mp4 --format wav

Run 'fileforge routes' to list the available pairs.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the available conversion pairs",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := newEngine()
		for _, pair := range engine.Pairs() {
			fmt.Println(pair)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output path (defaults next to the input)")
	convertCmd.Flags().StringVar(&convertFormat, "format", "", "output format for routes that support one")
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(routesCmd)
}

func newEngine() *convert.Engine {
	return convert.NewEngine(convert.Config{
		RenderScale:   cfg.Convert.RenderScale,
		JPEGQuality:   cfg.Convert.JPEGQuality,
		SofficePath:   cfg.Convert.SofficePath,
		FFmpegPath:    cfg.Convert.FFmpegPath,
		ToolTimeout:   cfg.Convert.ToolTimeout,
		MaxImageBytes: cfg.Limits.MaxImageBytes,
		MaxPDFBytes:   cfg.Limits.MaxPDFBytes,
		MaxVideoBytes: cfg.Limits.MaxVideoBytes,
	}, logger)
}

func runConvert(cmd *cobra.Command, args []string) error {
	pair, inputPath := args[0], args[1]

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	// The CLI has no declared upload type; infer it from the extension
	// so the same route validation applies as over HTTP.
	declaredType := mime.TypeByExtension(strings.ToLower(filepath.Ext(inputPath)))

	engine := newEngine()
	opts := convert.Options{OutputFormat: convertFormat}

	output, route, err := engine.Convert(context.Background(), pair, input, declaredType, opts)
	if err != nil {
		return err
	}

	mediaType, ext, err := route.Target(opts)
	if err != nil {
		return err
	}

	base := domain.BaseName(filepath.Base(inputPath))
	var result *bundle.Result
	if route.Paged {
		result, err = bundle.Pages(output.Pages, base, ext, mediaType)
		if err != nil {
			return err
		}
	} else {
		result = bundle.Single(output.Pages[0], base, ext, mediaType)
	}

	outPath := convertOutput
	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(inputPath), result.Filename)
	}
	if err := os.WriteFile(outPath, result.Content, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	color.Green("✓ %s → %s (%d bytes, %d page(s))", inputPath, outPath, len(result.Content), len(output.Pages))
	return nil
}
