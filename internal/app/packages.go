package app

import (
	"fmt"

	"github.com/vk/scriptbind/internal/config"
	"github.com/vk/scriptbind/modules/basicstring"
	"github.com/vk/scriptbind/registry"
)

// corePackages maps configuration names to constructors for all the
// packages compiled into the scriptbind binary.
var corePackages = map[string]func(config.PackageBlock) registry.Package{
	"basic_string": newBasicString,
}

// resolvePackages turns the configured package blocks into package
// instances. With no configuration, the full default set is used.
func resolvePackages(model *config.Model) []registry.Package {
	if len(model.Packages) == 0 {
		return []registry.Package{basicstring.New(basicstring.DefaultOptions())}
	}

	pkgs := make([]registry.Package, 0, len(model.Packages))
	for _, blk := range model.Packages {
		ctor, ok := corePackages[blk.Name]
		if !ok {
			panic(fmt.Errorf("unknown package %q in configuration", blk.Name))
		}
		pkgs = append(pkgs, ctor(blk))
	}
	return pkgs
}

func newBasicString(blk config.PackageBlock) registry.Package {
	opts := basicstring.DefaultOptions()
	if blk.SizedIntegers != nil {
		opts.SizedIntegers = *blk.SizedIntegers
	}
	if blk.Floats != nil {
		opts.Floats = *blk.Floats
	}
	if blk.Lists != nil {
		opts.Lists = *blk.Lists
	}
	if blk.Maps != nil {
		opts.Maps = *blk.Maps
	}
	return basicstring.New(opts)
}
