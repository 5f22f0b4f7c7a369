// Package config decodes the HCL tool configuration for the scriptbind
// CLI: logging settings plus the set of packages to merge into the
// function table and their options.
package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/scriptbind/internal/ctxlog"
)

// Model is the decoded tool configuration.
type Model struct {
	LogLevel  string         `hcl:"log_level,optional"`
	LogFormat string         `hcl:"log_format,optional"`
	Packages  []PackageBlock `hcl:"package,block"`
}

// PackageBlock selects one package to import and overrides its options.
// Unset options keep the package's defaults.
type PackageBlock struct {
	Name          string `hcl:"name,label"`
	SizedIntegers *bool  `hcl:"sized_integers,optional"`
	Floats        *bool  `hcl:"floats,optional"`
	Lists         *bool  `hcl:"lists,optional"`
	Maps          *bool  `hcl:"maps,optional"`
}

// DecodeFile parses and decodes a single HCL tool configuration file.
func DecodeFile(ctx context.Context, filePath string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding tool configuration file.", "path", filePath)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filePath, diags.Error())
	}

	var model Model
	diags = gohcl.DecodeBody(file.Body, nil, &model)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filePath, diags.Error())
	}

	logger.Debug("Successfully decoded tool configuration.", "path", filePath, "packages_found", len(model.Packages))
	return &model, nil
}
