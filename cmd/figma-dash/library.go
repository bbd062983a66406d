package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	figmadash "github.com/kataras/figma-dash"
	"github.com/kataras/figma-dash/pkg/formatter"

	"github.com/spf13/cobra"
)

func newLibraryCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "library",
		Short: "List the components and styles a file publishes",
		Example: `  figma-dash library --file https://www.figma.com/file/ABC123/MyDesign
  figma-dash library --file ABC123 --format json`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return library(cmd.Context(), file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Figma file URL or file key (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func library(ctx context.Context, file string) error {
	format, err := formatter.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	token := resolveToken(accessToken, cfg)
	if token == "" {
		return errors.New("figma API token is required: set --token or FIGMA_API_TOKEN")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	opts := figmadash.Options{
		AccessToken: token,
		File:        file,
		Format:      format,
		OAuth:       oauth,
		Logger:      newCLILogger(os.Stderr, verbose || isTerminal(os.Stderr)),
	}
	result, err := figmadash.FetchLibrary(ctx, figmadash.NewClient(opts), opts)
	if err != nil {
		return err
	}

	output := result.Output
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	fmt.Print(output)
	return nil
}
