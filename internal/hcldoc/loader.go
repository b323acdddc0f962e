package hcldoc

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/propgraph/internal/ctxlog"
	"github.com/specialistvlad/propgraph/internal/document"
	"github.com/specialistvlad/propgraph/internal/fsutil"
)

// Loader is the HCL implementation of document.Loader.
type Loader struct{}

var _ document.Loader = (*Loader)(nil)

// NewLoader creates a new HCL document loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and translates the element
// blocks into a single tree.
func (l *Loader) Load(ctx context.Context, paths ...string) (*document.Tree, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var blocks hcl.Blocks
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		content, diags := hclFile.Body.Content(fileSchema)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		blocks = append(blocks, content.Blocks...)
	}

	tree, err := translate(blocks)
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "files", len(files), "nodes", len(tree.Nodes))
	return tree, nil
}
