package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/griffnb/core-apidoc/internal/config"
	"github.com/griffnb/core-apidoc/internal/console"
	"github.com/griffnb/core-apidoc/internal/gen"
	"github.com/griffnb/core-apidoc/internal/parser/field"
)

// Version of the apidoc binary.
const Version = "v0.1.0"

const (
	searchDirFlag        = "dir"
	excludeFlag          = "exclude"
	generalInfoFlag      = "main"
	configFlag           = "config"
	strictFlag           = "strict"
	propertyStrategyFlag = "propertyStrategy"
	outputFlag           = "output"
	outputTypesFlag      = "outputTypes"
	parseVendorFlag      = "parseVendor"
	markdownFilesFlag    = "markdownFiles"
	packagePrefixFlag    = "packagePrefix"
	quietFlag            = "quiet"
	debugFlag            = "debug"
)

var generateFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    quietFlag,
		Aliases: []string{"q"},
		Usage:   "Make the logger quiet.",
	},
	&cli.StringFlag{
		Name:    generalInfoFlag,
		Aliases: []string{"m"},
		Value:   "main.go",
		Usage:   "Go file path, relative to --dir, in which the general API info is written",
	},
	&cli.StringFlag{
		Name:    searchDirFlag,
		Aliases: []string{"d"},
		Value:   "./",
		Usage:   "Root directory of the module to document",
	},
	&cli.StringFlag{
		Name:  excludeFlag,
		Usage: "Exclude directories and files when searching, comma separated",
	},
	&cli.StringFlag{
		Name:    configFlag,
		Aliases: []string{"c"},
		Usage:   "Settings file, defaults to " + config.DefaultFile + " when present",
	},
	&cli.BoolFlag{
		Name:  strictFlag,
		Usage: "Fail on computed fields whose type cannot be inferred",
	},
	&cli.StringFlag{
		Name:    propertyStrategyFlag,
		Aliases: []string{"p"},
		Usage:   "Property Naming Strategy like " + field.SnakeCase + "," + field.CamelCase + "," + field.PascalCase,
	},
	&cli.StringFlag{
		Name:    outputFlag,
		Aliases: []string{"o"},
		Value:   "./docs",
		Usage:   "Output directory for all the generated files (openapi.json, openapi.yaml)",
	},
	&cli.StringFlag{
		Name:    outputTypesFlag,
		Aliases: []string{"ot"},
		Value:   "yaml",
		Usage:   "Output types of generated files (openapi.json, openapi.yaml) like json,yaml",
	},
	&cli.BoolFlag{
		Name:  parseVendorFlag,
		Usage: "Parse go files in 'vendor' folder, disabled by default",
	},
	&cli.StringFlag{
		Name:    markdownFilesFlag,
		Aliases: []string{"md"},
		Usage:   "Parse folder containing markdown files to use as description, disabled by default",
	},
	&cli.StringFlag{
		Name:  packagePrefixFlag,
		Usage: "Parse only packages whose import path match the given prefix, comma separated",
	},
	&cli.BoolFlag{
		Name:  debugFlag,
		Usage: "Enable debug mode, disabled by default",
	},
}

func generateAction(ctx *cli.Context) error {
	strategy := ctx.String(propertyStrategyFlag)
	if strategy != "" && !field.IsNamingStrategy(strategy) {
		return fmt.Errorf("not supported %s propertyStrategy", strategy)
	}

	if ctx.Bool(debugFlag) {
		console.Logger.DebugLevel = 1
	}
	console.Logger.SetQuiet(ctx.Bool(quietFlag))

	var outputTypes []string
	for _, t := range strings.Split(ctx.String(outputTypesFlag), ",") {
		if t = strings.TrimSpace(t); t != "" {
			outputTypes = append(outputTypes, t)
		}
	}
	if len(outputTypes) == 0 {
		return fmt.Errorf("no output types specified")
	}

	return gen.New().Build(ctx.Context, &gen.Config{
		Log:                console.Logger,
		SearchDir:          ctx.String(searchDirFlag),
		Excludes:           ctx.String(excludeFlag),
		MainAPIFile:        ctx.String(generalInfoFlag),
		ConfigFile:         ctx.String(configFlag),
		Strict:             ctx.Bool(strictFlag),
		PropNamingStrategy: strategy,
		OutputDir:          ctx.String(outputFlag),
		OutputTypes:        outputTypes,
		ParseVendor:        ctx.Bool(parseVendorFlag),
		MarkdownFilesDir:   ctx.String(markdownFilesFlag),
		PackagePrefix:      ctx.String(packagePrefixFlag),
	})
}

func main() {
	app := cli.NewApp()
	app.Name = "core-apidoc"
	app.Version = Version
	app.Usage = "Generate OpenAPI 3.0 documentation from annotated Go handlers and DTOs."
	app.Commands = []*cli.Command{
		{
			Name:    "generate",
			Aliases: []string{"g"},
			Usage:   "Generate openapi documentation",
			Action:  generateAction,
			Flags:   generateFlags,
		},
	}

	if err := app.Run(os.Args); err != nil {
		console.Logger.Error("%v", err)
		os.Exit(1)
	}
}
