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

	"github.com/fileforge/fileforge/internal/compress"
	"github.com/fileforge/fileforge/internal/domain"
)

var (
	compressPercent int
	compressOutput  string
)

var compressCmd = &cobra.Command{
	Use:   "compress <input>",
	Short: "Lossily compress an image, audio, video or PDF file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompress,
}

func init() {
	compressCmd.Flags().IntVarP(&compressPercent, "percent", "p", 50, "how much to reduce, 0-100")
	compressCmd.Flags().StringVarP(&compressOutput, "output", "o", "", "output path (defaults next to the input)")
	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	service := compress.NewService(compress.Config{
		FFmpegPath:  cfg.Convert.FFmpegPath,
		ToolTimeout: cfg.Convert.ToolTimeout,
	}, logger)

	declaredType := mime.TypeByExtension(strings.ToLower(filepath.Ext(inputPath)))
	out, mediaType, err := service.Compress(context.Background(), input, declaredType, compressPercent)
	if err != nil {
		return err
	}

	ext := domain.ExtByMedia[mediaType]
	if ext == "" {
		ext = "bin"
	}

	outPath := compressOutput
	if outPath == "" {
		base := domain.BaseName(filepath.Base(inputPath))
		outPath = filepath.Join(filepath.Dir(inputPath), fmt.Sprintf("%s_compressed.%s", base, ext))
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	ratio := float64(len(out)) / float64(len(input)) * 100
	color.Green("✓ %s → %s (%d → %d bytes, %.1f%%)", inputPath, outPath, len(input), len(out), ratio)
	return nil
}
