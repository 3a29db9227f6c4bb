package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/typegraph/typegraph/internal/console"
	"github.com/typegraph/typegraph/internal/gen"
)

const (
	searchDirFlag       = "dir"
	excludeFlag         = "exclude"
	outputFlag          = "output"
	outputTypesFlag     = "outputTypes"
	parseDependencyFlag = "parseDependency"
	parseInternalFlag   = "parseInternal"
	parseDepthFlag      = "parseDepth"
	overridesFileFlag   = "overridesFile"
	parseExtensionFlag  = "parseExtension"
	packagePrefixFlag   = "packagePrefix"
	parseGoPackagesFlag = "parseGoPackages"
	quietFlag           = "quiet"
	debugFlag           = "debug"
)

var scanFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    quietFlag,
		Aliases: []string{"q"},
		Usage:   "Make the logger quiet.",
	},
	&cli.StringFlag{
		Name:    searchDirFlag,
		Aliases: []string{"d"},
		Value:   "./",
		Usage:   "Directory to scan for annotated types",
	},
	&cli.StringFlag{
		Name:  excludeFlag,
		Usage: "Exclude directories and files when searching, comma separated",
	},
	&cli.StringFlag{
		Name:    outputFlag,
		Aliases: []string{"o"},
		Value:   "./typegraph",
		Usage:   "Output directory for all the generated files (typegraph.json, typegraph.yaml)",
	},
	&cli.StringFlag{
		Name:    outputTypesFlag,
		Aliases: []string{"ot"},
		Value:   "json,yaml",
		Usage:   "Output types of generated files (typegraph.json, typegraph.yaml) like json,yaml",
	},
	&cli.BoolFlag{
		Name:    parseDependencyFlag,
		Aliases: []string{"pd"},
		Usage:   "Scan go files inside dependency folder, disabled by default",
	},
	&cli.BoolFlag{
		Name:  parseInternalFlag,
		Usage: "Scan go files in internal packages, disabled by default",
	},
	&cli.IntFlag{
		Name:  parseDepthFlag,
		Value: 100,
		Usage: "Dependency parse depth",
	},
	&cli.StringFlag{
		Name:  overridesFileFlag,
		Value: gen.DefaultOverridesFile,
		Usage: "File to read global type naming overrides from.",
	},
	&cli.StringFlag{
		Name:  parseExtensionFlag,
		Value: "",
		Usage: "Scan only files that match given extension",
	},
	&cli.StringFlag{
		Name:  packagePrefixFlag,
		Value: "",
		Usage: "Scan only packages whose import path match the given prefix, comma separated",
	},
	&cli.BoolFlag{
		Name:  parseGoPackagesFlag,
		Usage: "Load Go sources by golang.org/x/tools/go/packages, disabled by default",
	},
	&cli.BoolFlag{
		Name:  debugFlag,
		Usage: "Enable debug mode, disabled by default",
	},
}

func scanAction(ctx *cli.Context) error {
	if ctx.IsSet(debugFlag) {
		console.Logger.DebugLevel = 1
	}

	outputTypes := strings.Split(ctx.String(outputTypesFlag), ",")
	if len(outputTypes) == 0 {
		return fmt.Errorf("no output types specified")
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	if ctx.Bool(quietFlag) {
		logger = log.New(io.Discard, "", log.LstdFlags)
	}

	parseDepth := 0
	if ctx.Bool(parseDependencyFlag) {
		parseDepth = ctx.Int(parseDepthFlag)
	}

	return gen.New().Build(&gen.Config{
		SearchDir:       ctx.String(searchDirFlag),
		Excludes:        ctx.String(excludeFlag),
		ParseExtension:  ctx.String(parseExtensionFlag),
		OutputDir:       ctx.String(outputFlag),
		OutputTypes:     outputTypes,
		ParseDepth:      parseDepth,
		ParseInternal:   ctx.Bool(parseInternalFlag),
		ParseGoPackages: ctx.Bool(parseGoPackagesFlag),
		OverridesFile:   ctx.String(overridesFileFlag),
		PackagePrefix:   ctx.String(packagePrefixFlag),
		Debugger:        logger,
	})
}

func main() {
	app := cli.NewApp()
	app.Version = gen.Version
	app.Usage = "Map annotated Go types to GraphQL type bindings."
	app.Commands = []*cli.Command{
		{
			Name:    "scan",
			Aliases: []string{"s"},
			Usage:   "Scan a directory and write the type binding report",
			Action:  scanAction,
			Flags:   scanFlags,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
