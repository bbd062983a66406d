// Package figmadash outlines the design features of a Figma file: its
// components, pages and frames, solid fill colors and text styles.
//
// The CLI lives in cmd/figma-dash; this root package exposes the same
// pipeline as a Go API so that callers can embed it in their own tools
// without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named figmadash:
//
//	import "github.com/kataras/figma-dash" // package figmadash
//
// # Quick start
//
//	result, err := figmadash.Run(ctx, figmadash.Options{
//	    AccessToken: os.Getenv("FIGMA_API_TOKEN"),
//	    File:        "https://www.figma.com/file/ABC123/My-Design",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Output)
//
// # Output formats
//
// [Options.Format] selects the rendering: the plain text outline (default),
// markdown, json, yaml or a sanitized standalone html page. See
// [formatter.ParseFormat].
//
// # Selected nodes
//
// To outline only part of a file, populate [Options.NodeIDs] or pass a
// Figma URL carrying a node-id query parameter. Each selected subtree is
// fetched on its own and an unknown id fails with [figma.ErrNodeNotFound].
//
// # Published library
//
// [FetchLibrary] lists the components and styles a file publishes for use
// in other files.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
//
// # Deep documents
//
// The document tree is walked without recursion, and a node nested deeper
// than [Options.MaxDepth] (default [extractor.DefaultMaxDepth]) aborts the
// run with an error matching [extractor.ErrMaxDepth]. Ceilings above
// [extractor.LimitMaxDepth] are lowered to it.
package figmadash
