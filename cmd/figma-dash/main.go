package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	figmadash "github.com/kataras/figma-dash"
	"github.com/kataras/figma-dash/pkg/figma"
	"github.com/kataras/figma-dash/pkg/formatter"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const version = figma.Version

var (
	fileArg     string
	nodeIDs     string
	accessToken string
	outputFile  string
	formatName  string
	envFile     string
	maxDepth    int
	oauth       bool
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "figma-dash",
		Short: "Outline design features from a Figma file",
		Long: `Fetch a Figma file and print an outline of its components, pages and
frames, color palette and text styles.

The API token is read from --token, the FIGMA_API_TOKEN environment variable,
or a .env file in the working directory, in that order.`,
		Example: `  figma-dash --file https://www.figma.com/file/ABC123/MyDesign
  figma-dash --file ABC123 --token YOUR_TOKEN
  figma-dash --file ABC123 --format markdown --output design.md
  figma-dash --file ABC123 --node-ids 1:2,3:4`,
		Run: run,
	}

	rootCmd.Flags().StringVarP(&fileArg, "file", "f", "", "Figma file URL or file key (required)")
	rootCmd.Flags().StringVarP(&nodeIDs, "node-ids", "n", "", "Comma-separated node IDs to outline instead of the entire file")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the outline to a file instead of stdout")
	rootCmd.PersistentFlags().StringVarP(&accessToken, "token", "t", "", "Figma API token (or set FIGMA_API_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&formatName, "format", "text", "Output format: text, markdown, json, yaml, html")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", defaultEnvFile, "Dotenv file to read FIGMA_API_TOKEN from")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "Maximum document depth to walk (0 = default, capped at 9999)")
	rootCmd.PersistentFlags().BoolVar(&oauth, "oauth", false, "Send the token as an OAuth bearer token")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print progress even when stderr is not a terminal")

	rootCmd.MarkFlagRequired("file")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figma-dash version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd, newServeCmd(), newLibraryCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) {
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)

	format, err := formatter.ParseFormat(formatName)
	if err != nil {
		red.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(envFile)
	if err != nil {
		red.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	token := resolveToken(accessToken, cfg)
	if token == "" {
		red.Fprintln(os.Stderr, "Error: Figma API token is required.")
		fmt.Fprintln(os.Stderr, "Provide it via --token argument or FIGMA_API_TOKEN environment variable.")
		fmt.Fprintln(os.Stderr, "\nTo get a token:")
		fmt.Fprintln(os.Stderr, "1. Go to https://www.figma.com/settings")
		fmt.Fprintln(os.Stderr, "2. Scroll to 'Personal access tokens'")
		fmt.Fprintln(os.Stderr, "3. Create a new token")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := figmadash.Run(ctx, figmadash.Options{
		AccessToken: token,
		File:        fileArg,
		NodeIDs:     figma.ParseNodeIDs(nodeIDs),
		Format:      format,
		MaxDepth:    maxDepth,
		OAuth:       oauth,
		Logger:      newCLILogger(os.Stderr, verbose || isTerminal(os.Stderr)),
	})
	if err != nil {
		red.Fprintf(os.Stderr, "Error: %v\n", err)
		var apiErr *figma.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintln(os.Stderr, "Please check:")
			fmt.Fprintln(os.Stderr, "- The file key/URL is correct")
			fmt.Fprintln(os.Stderr, "- Your API token is valid")
			fmt.Fprintln(os.Stderr, "- You have access to the file")
		}
		stop()
		os.Exit(1)
	}

	output := result.Output
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}

	if outputFile == "" {
		fmt.Print(output)
		return
	}

	if err := os.WriteFile(outputFile, []byte(output), 0644); err != nil {
		red.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
	green.Fprintf(os.Stderr, "✨ Wrote %s outline of %q to %s\n", result.Format, result.FileName, outputFile)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// cliLogger implements figmadash.Logger with colored output. Info lines are
// dropped when quiet; warnings and errors are always written.
type cliLogger struct {
	w     io.Writer
	quiet bool
}

func newCLILogger(w io.Writer, progress bool) *cliLogger {
	return &cliLogger{w: w, quiet: !progress}
}

func (l *cliLogger) Infof(format string, args ...any) {
	if l.quiet {
		return
	}
	color.New(color.FgCyan).Fprintf(l.w, format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(l.w, "⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Fprintf(l.w, "✗ "+format+"\n", args...)
}
