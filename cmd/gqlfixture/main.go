package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-json"

	"github.com/hanpama/gqlfixture/internal/eventbus"
	"github.com/hanpama/gqlfixture/internal/fixture"
	"github.com/hanpama/gqlfixture/internal/fragments"
	"github.com/hanpama/gqlfixture/internal/language"
	"github.com/hanpama/gqlfixture/internal/otel"
	"github.com/hanpama/gqlfixture/internal/queryprint"
	"github.com/hanpama/gqlfixture/internal/schema"
	"github.com/hanpama/gqlfixture/internal/suite"
)

const rootUsage = `gqlfixture — validate captured GraphQL response fixtures

USAGE:
  gqlfixture <command> [flags]

COMMANDS:
  validate       Validate one fixture file against a schema and query
  run            Run every fixture listed in a YAML suite manifest
  normalize      Inline a query's fragment spreads and print the result
  print-schema   Parse an SDL file and print its canonical rendering
  help           Show help for any command
`

const validateUsage = `validate FLAGS:
  -schema <file>         GraphQL SDL file (required)
  -query <file>          Query document file (required)
  -fixture <file>        JSON fixture file (required)
  -operation <name>      Operation to validate against (required when the
                         document defines more than one)
  -structural-only       Skip the type-checking phase
  -pretty                Pretty-print the JSON report
  -otel.endpoint <addr>  OTLP collector endpoint
  -otel.service <name>   OpenTelemetry service name (default: gqlfixture)
  (Exits non-zero when the fixture is invalid)
`

const runUsage = `run FLAGS:
  -suite <file>          YAML suite manifest (required)
  -pretty                Pretty-print the JSON report
  -otel.endpoint <addr>  OTLP collector endpoint
  -otel.service <name>   OpenTelemetry service name (default: gqlfixture)
  (Exits non-zero when any fixture is invalid)
`

const normalizeUsage = `normalize FLAGS:
  -query <file>  Query document file (required)
  -out <file>    Write normalized query to file (default: stdout)
`

const printSchemaUsage = `print-schema FLAGS:
  -schema <file>  GraphQL SDL file (required)
  -out <file>     Write rendered SDL to file (default: stdout)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("gqlfixture", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "validate":
		return cmdValidate(cmdArgs)
	case "run":
		return cmdRun(cmdArgs)
	case "normalize":
		return cmdNormalize(cmdArgs)
	case "print-schema":
		return cmdPrintSchema(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "validate":
		fmt.Print(validateUsage)
	case "run":
		fmt.Print(runUsage)
	case "normalize":
		fmt.Print(normalizeUsage)
	case "print-schema":
		fmt.Print(printSchemaUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

func cmdValidate(args []string) error {
	schemaFile := ""
	queryFile := ""
	fixtureFile := ""
	operation := ""
	structuralOnly := false
	pretty := false
	otelEndpoint := ""
	otelService := "gqlfixture"

	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "GraphQL SDL file")
	fs.StringVar(&queryFile, "query", queryFile, "Query document file")
	fs.StringVar(&fixtureFile, "fixture", fixtureFile, "JSON fixture file")
	fs.StringVar(&operation, "operation", operation, "Operation to validate against")
	fs.BoolVar(&structuralOnly, "structural-only", structuralOnly, "Skip the type-checking phase")
	fs.BoolVar(&pretty, "pretty", pretty, "Pretty-print the JSON report")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, validateUsage)
		return err
	}
	if schemaFile == "" || queryFile == "" || fixtureFile == "" {
		fmt.Fprint(os.Stderr, validateUsage)
		return fmt.Errorf("-schema, -query and -fixture are required")
	}

	sdl, err := os.ReadFile(schemaFile)
	if err != nil {
		return err
	}
	queryText, err := os.ReadFile(queryFile)
	if err != nil {
		return err
	}
	v, err := fixture.NewFromSDL(schemaFile, string(sdl))
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	res, err := v.ValidateFile(context.Background(), string(queryText), fixtureFile, fixture.Options{
		OperationName:  operation,
		StructuralOnly: structuralOnly,
	})
	if err != nil {
		return err
	}
	if err := printJSON(res, pretty); err != nil {
		return err
	}
	if !res.Valid {
		return fmt.Errorf("fixture %s is invalid: %d errors", fixtureFile, len(res.Errors))
	}
	return nil
}

func cmdRun(args []string) error {
	suiteFile := ""
	pretty := false
	otelEndpoint := ""
	otelService := "gqlfixture"

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&suiteFile, "suite", suiteFile, "YAML suite manifest")
	fs.BoolVar(&pretty, "pretty", pretty, "Pretty-print the JSON report")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, runUsage)
		return err
	}
	if suiteFile == "" {
		fmt.Fprint(os.Stderr, runUsage)
		return fmt.Errorf("-suite is required")
	}

	s, err := suite.Load(suiteFile)
	if err != nil {
		return err
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	results := s.Run(context.Background())
	if err := printJSON(results, pretty); err != nil {
		return err
	}

	failed := 0
	for _, fr := range results {
		if fr.Err != "" || !fr.Result.Valid {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d fixtures failed", failed, len(results))
	}
	return nil
}

func cmdNormalize(args []string) error {
	queryFile := ""
	outFile := ""
	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&queryFile, "query", queryFile, "Query document file")
	fs.StringVar(&outFile, "out", outFile, "Write normalized query to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, normalizeUsage)
		return err
	}
	if queryFile == "" {
		fmt.Fprint(os.Stderr, normalizeUsage)
		return fmt.Errorf("-query is required")
	}

	queryText, err := os.ReadFile(queryFile)
	if err != nil {
		return err
	}
	doc, err := language.ParseQuery(string(queryText))
	if err != nil {
		return err
	}
	doc, err = fragments.Inline(doc)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, op := range doc.Operations {
		buf.WriteString(queryprint.Print(op))
		buf.WriteByte('\n')
	}
	return writeOut(outFile, buf.Bytes())
}

func cmdPrintSchema(args []string) error {
	schemaFile := ""
	outFile := ""
	fs := flag.NewFlagSet("print-schema", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "GraphQL SDL file")
	fs.StringVar(&outFile, "out", outFile, "Write rendered SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, printSchemaUsage)
		return err
	}
	if schemaFile == "" {
		fmt.Fprint(os.Stderr, printSchemaUsage)
		return fmt.Errorf("-schema is required")
	}

	sdl, err := os.ReadFile(schemaFile)
	if err != nil {
		return err
	}
	sch, err := schema.BuildFromSDL(schemaFile, string(sdl))
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	return writeOut(outFile, []byte(schema.Render(sch)))
}

func printJSON(v any, pretty bool) error {
	var raw []byte
	var err error
	if pretty {
		raw, err = json.MarshalIndent(v, "", "  ")
	} else {
		raw, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

func writeOut(path string, data []byte) error {
	if path == "" {
		fmt.Print(string(data))
		return nil
	}
	return os.WriteFile(path, data, 0644)
}
