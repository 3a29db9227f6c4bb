// Package gen drives a full scan-and-resolve pass and writes the resulting
// type bindings to disk, for build pipelines and schema inspection.
package gen

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/typegraph/typegraph/internal/cache"
	"github.com/typegraph/typegraph/internal/console"
	"github.com/typegraph/typegraph/internal/discovery"
	"github.com/typegraph/typegraph/internal/domain"
	"github.com/typegraph/typegraph/internal/mapping"
	"github.com/typegraph/typegraph/internal/naming"
)

var open = os.Open

// DefaultOverridesFile is the location gen will look for naming overrides.
const DefaultOverridesFile = ".typegraph"

type reportWriter func(*Config, *Report) error

// Gen presents the binding report generator.
type Gen struct {
	json          func(data interface{}) ([]byte, error)
	jsonIndent    func(data interface{}) ([]byte, error)
	jsonToYAML    func(data []byte) ([]byte, error)
	outputTypeMap map[string]reportWriter
	debug         domain.Debugger
}

// New creates a new Gen.
func New() *Gen {
	gen := Gen{
		json: json.Marshal,
		jsonIndent: func(data interface{}) ([]byte, error) {
			return json.MarshalIndent(data, "", "    ")
		},
		jsonToYAML: yaml.JSONToYAML,
		debug:      log.New(os.Stdout, "", log.LstdFlags),
	}

	gen.outputTypeMap = map[string]reportWriter{
		"json": gen.writeJSONReport,
		"yaml": gen.writeYAMLReport,
		"yml":  gen.writeYAMLReport,
	}

	return &gen
}

// Config presents Gen configurations.
type Config struct {
	Debugger domain.Debugger

	// SearchDir is the directory to scan for annotated classes
	SearchDir string

	// Excludes dirs and files in SearchDir, comma separated
	Excludes string

	// ParseExtension limits scanning to files with this extension
	ParseExtension string

	// OutputDir represents the output directory for the generated report
	OutputDir string

	// OutputTypes define types of files which should be generated
	OutputTypes []string

	// ParseDepth dependency parse depth, zero disables dependency scanning
	ParseDepth int

	// ParseInternal whether dependency traversal descends into internal packages
	ParseInternal bool

	// ParseGoPackages whether to load sources via golang.org/x/tools/go/packages
	ParseGoPackages bool

	// OverridesFile defines global type naming overrides
	OverridesFile string

	// PackagePrefix limits dependency scanning to import paths matching the
	// given prefixes, comma separated
	PackagePrefix string
}

// Report is the serialized outcome of one scan-and-resolve pass.
type Report struct {
	Types      []mapping.TypeBinding      `json:"types"`
	Factories  []mapping.FactoryBinding   `json:"factories"`
	Extensions []mapping.ExtensionBinding `json:"extensions"`
}

// Build scans the configured directory, resolves every binding family and
// writes the report in each requested output format.
func (g *Gen) Build(config *Config) error {
	if config.Debugger != nil {
		g.debug = config.Debugger
	}

	if !config.ParseGoPackages {
		if _, err := os.Stat(config.SearchDir); os.IsNotExist(err) {
			return fmt.Errorf("dir: %s does not exist", config.SearchDir)
		}
	}

	var overrides map[string]string

	if config.OverridesFile != "" {
		overridesFile, err := open(config.OverridesFile)
		if err != nil {
			// Don't bother reporting if the default file is missing; assume there are no overrides
			if !(config.OverridesFile == DefaultOverridesFile && os.IsNotExist(err)) {
				return fmt.Errorf("could not open overrides file: %w", err)
			}
		} else {
			console.Logger.Debug("Using overrides from %s", config.OverridesFile)

			overrides, err = parseOverrides(overridesFile)
			if err != nil {
				return err
			}
		}
	}

	console.Logger.Debug("Generating type binding report....")

	discoverer := discovery.NewService(
		discovery.WithExcludes(parseExcludes(config.Excludes)),
		discovery.WithPackagePrefixes(parsePackagePrefix(config.PackagePrefix)),
		discovery.WithParseExtension(parseExtensionOrDefault(config.ParseExtension)),
		discovery.WithParseInternal(config.ParseInternal),
		discovery.WithGoPackages(config.ParseGoPackages),
		discovery.WithDependencyDepth(config.ParseDepth),
		discovery.WithDebugger(g.debug),
	)

	strategy := naming.NewStrategy(naming.WithOverrides(overrides))

	index := mapping.NewIndex(discoverer, discoverer, strategy, config.SearchDir,
		mapping.WithCache(cache.NewMemoryCache()),
		mapping.WithDebugger(g.debug),
	)

	report, err := buildReport(index)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(config.OutputDir, os.ModePerm); err != nil {
		return err
	}

	for _, outputType := range config.OutputTypes {
		outputType = strings.ToLower(strings.TrimSpace(outputType))
		if typeWriter, ok := g.outputTypeMap[outputType]; ok {
			if err := typeWriter(config, report); err != nil {
				return err
			}
		} else {
			log.Printf("output type '%s' not supported", outputType)
		}
	}

	return nil
}

func buildReport(index *mapping.Index) (*Report, error) {
	types, err := index.TypeBindings()
	if err != nil {
		return nil, err
	}
	factories, err := index.FactoryBindings()
	if err != nil {
		return nil, err
	}
	extensions, err := index.ExtensionBindings()
	if err != nil {
		return nil, err
	}

	return &Report{
		Types:      types,
		Factories:  factories,
		Extensions: extensions,
	}, nil
}

func (g *Gen) writeJSONReport(config *Config, report *Report) error {
	jsonFileName := path.Join(config.OutputDir, "typegraph.json")

	b, err := g.jsonIndent(report)
	if err != nil {
		return err
	}

	err = g.writeFile(b, jsonFileName)
	if err != nil {
		return err
	}

	console.Logger.Debug("create typegraph.json at %+v", jsonFileName)

	return nil
}

func (g *Gen) writeYAMLReport(config *Config, report *Report) error {
	yamlFileName := path.Join(config.OutputDir, "typegraph.yaml")

	b, err := g.json(report)
	if err != nil {
		return err
	}

	y, err := g.jsonToYAML(b)
	if err != nil {
		return fmt.Errorf("cannot convert json to yaml error: %s", err)
	}

	err = g.writeFile(y, yamlFileName)
	if err != nil {
		return err
	}

	console.Logger.Debug("create typegraph.yaml at %+v", yamlFileName)

	return nil
}

func (g *Gen) writeFile(b []byte, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	defer f.Close()

	_, err = f.Write(b)

	return err
}

// Read and parse the overrides file. Each non-comment line reads
// "replace <class> <typeName>".
func parseOverrides(r io.Reader) (map[string]string, error) {
	overrides := make(map[string]string)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()

		// Skip comments
		if len(line) > 1 && line[0:2] == "//" {
			continue
		}

		parts := strings.Fields(line)

		switch len(parts) {
		case 0:
			// only whitespace
			continue
		case 3:
			if parts[0] != "replace" {
				return nil, fmt.Errorf("could not parse override: '%s'", line)
			}

			overrides[parts[1]] = parts[2]
		default:
			return nil, fmt.Errorf("could not parse override: '%s'", line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading overrides file: %w", err)
	}

	return overrides, nil
}

// parseExcludes converts comma-separated exclude string to map.
func parseExcludes(excludes string) map[string]struct{} {
	result := make(map[string]struct{})
	if excludes == "" {
		return result
	}

	for _, exclude := range strings.Split(excludes, ",") {
		exclude = strings.TrimSpace(exclude)
		if exclude != "" {
			result[exclude] = struct{}{}
		}
	}
	return result
}

// parsePackagePrefix converts comma-separated prefix string to slice.
func parsePackagePrefix(packagePrefix string) []string {
	if packagePrefix == "" {
		return nil
	}

	var result []string
	for _, prefix := range strings.Split(packagePrefix, ",") {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" {
			result = append(result, prefix)
		}
	}
	return result
}

func parseExtensionOrDefault(ext string) string {
	if ext == "" {
		return ".go"
	}
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}
