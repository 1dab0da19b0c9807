package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"

	"scorecast/artifact"
	"scorecast/db"
	"scorecast/ml"
	"scorecast/report"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	inputFlag = &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "YAML file with student attributes (missing ones keep their defaults)",
	}

	setFlag = &cli.StringSliceFlag{
		Name:    "set",
		Aliases: []string{"s"},
		Usage:   "Override one attribute, e.g. --set Hours_Studied=30 --set Gender=Male",
	}

	langFlag = &cli.StringFlag{
		Name:  "lang",
		Usage: "Report language [en, ko] (default: report.language from config)",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [text, json, yaml]",
		Value: formatText,
	}

	artifactsDirFlag = &cli.StringFlag{
		Name:  "artifacts",
		Usage: "Read artifacts from this directory instead of the configured source",
	}

	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the sqlite artifact database (default: artifacts.db_path from config)",
	}

	fromFlag = &cli.StringFlag{
		Name:     "from",
		Usage:    "Directory of JSON artifacts to import",
		Required: true,
	}

	predictCmd = &cli.Command{
		Name:    "predict",
		Aliases: []string{"p"},
		Usage:   "Predicts the exam score for one student",
		Action:  cmdPredict,
		Flags: []cli.Flag{
			inputFlag,
			setFlag,
			langFlag,
			formatFlag,
			artifactsDirFlag,
		},
	}

	modelsCmd = &cli.Command{
		Name:    "models",
		Aliases: []string{"m"},
		Usage:   "Lists models ranked by historical R²",
		Action:  cmdModels,
		Flags: []cli.Flag{
			langFlag,
			formatFlag,
			artifactsDirFlag,
		},
	}

	artifactsCmd = &cli.Command{
		Name:    "artifacts",
		Aliases: []string{"a"},
		Usage:   "Manages the sqlite artifact store",
		Subcommands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Copies a directory of JSON artifacts into the sqlite store",
				Action: cmdArtifactsImport,
				Flags: []cli.Flag{
					fromFlag,
					dbFlag,
				},
			},
			{
				Name:   "list",
				Usage:  "Lists artifacts in the sqlite store",
				Action: cmdArtifactsList,
				Flags: []cli.Flag{
					dbFlag,
					formatFlag,
				},
			},
		},
	}
)

func cmdPredict(c *cli.Context) error {
	input, err := buildInput(c.String(inputFlag.Name), c.StringSlice(setFlag.Name))
	if err != nil {
		return err
	}
	predictor, err := loadPredictor(c)
	if err != nil {
		return err
	}
	res, err := predictor.Predict(c.Context, input)
	if err != nil {
		return err
	}
	if format := c.String(formatFlag.Name); format != formatText {
		return printOutput(c, format, res)
	}
	return report.Render(c.App.Writer, res, language(c))
}

func cmdModels(c *cli.Context) error {
	predictor, err := loadPredictor(c)
	if err != nil {
		return err
	}
	ranks := ml.RankModels(predictor.Bundle().R2Scores)
	if format := c.String(formatFlag.Name); format != formatText {
		return printOutput(c, format, ranks)
	}
	return report.RenderRanking(c.App.Writer, ranks, language(c))
}

func cmdArtifactsImport(c *cli.Context) error {
	database, err := db.Open(dbPath(c))
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := artifact.Import(c.Context, artifact.DirStore{Dir: c.String(fromFlag.Name)}, database)
	if err != nil {
		return err
	}
	// confirm the imported set decodes before reporting success
	if _, err := artifact.Load(c.Context, artifact.SQLStore{DB: database}, artifact.Options{
		Logger: getConfig(c).Logger.Named("artifact"),
	}); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "imported %d artifacts into %s\n", n, dbPath(c))
	return nil
}

func cmdArtifactsList(c *cli.Context) error {
	database, err := db.Open(dbPath(c))
	if err != nil {
		return err
	}
	defer database.Close()

	list, err := database.ListArtifacts(c.Context)
	if err != nil {
		return err
	}
	format := c.String(formatFlag.Name)
	if format == formatText {
		for _, a := range list {
			fmt.Fprintf(c.App.Writer, "%-18s %8d  %s  %s\n", a.Name, a.Size, a.Checksum[:12], a.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	}
	return printOutput(c, format, list)
}

func loadPredictor(c *cli.Context) (*ml.Predictor, error) {
	ac := getConfig(c)
	cfg := ac.Config
	source, dir := cfg.Artifacts.Source, cfg.Artifacts.Dir
	if d := c.String(artifactsDirFlag.Name); d != "" {
		source, dir = artifact.SourceDir, d
	}
	store, closeStore, err := artifact.OpenStore(source, dir, cfg.Artifacts.DBPath)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	bundle, err := artifact.Load(c.Context, store, artifact.Options{
		AllowPartialEnsemble: cfg.Artifacts.AllowPartial,
		Logger:               ac.Logger.Named("artifact"),
	})
	if err != nil {
		return nil, err
	}
	return ml.NewPredictor(bundle, ml.WithLogger(ac.Logger.Named("predictor")))
}

// buildInput starts from the form defaults, applies the YAML file and then
// each Name=value override.
func buildInput(path string, sets []string) (ml.StudentInput, error) {
	input := ml.DefaultInput()
	if path != "" {
		payload, err := os.ReadFile(path)
		if err != nil {
			return input, fmt.Errorf("read input: %w", err)
		}
		if err := yaml.UnmarshalStrict(payload, &input); err != nil {
			return input, fmt.Errorf("parse input %s: %w", path, err)
		}
	}
	if len(sets) == 0 {
		return input, nil
	}

	doc, err := yaml.Marshal(input)
	if err != nil {
		return input, err
	}
	fields := map[string]interface{}{}
	if err := yaml.Unmarshal(doc, &fields); err != nil {
		return input, err
	}
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok {
			return input, fmt.Errorf("invalid --set %q, want Name=value", s)
		}
		attr, ok := ml.LookupAttribute(name)
		if !ok {
			return input, fmt.Errorf("unknown attribute %q", name)
		}
		if attr.Kind == ml.Numeric {
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return input, fmt.Errorf("%s: %w", name, err)
			}
			fields[name] = v
			continue
		}
		fields[name] = value
	}

	if doc, err = yaml.Marshal(fields); err != nil {
		return input, err
	}
	var out ml.StudentInput
	if err := yaml.UnmarshalStrict(doc, &out); err != nil {
		return input, err
	}
	return out, nil
}

func language(c *cli.Context) string {
	if lang := c.String(langFlag.Name); lang != "" {
		return lang
	}
	return getConfig(c).Config.Report.Language
}

func dbPath(c *cli.Context) string {
	if p := c.String(dbFlag.Name); p != "" {
		return p
	}
	return getConfig(c).Config.Artifacts.DBPath
}

func printOutput(c *cli.Context, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = c.App.Writer.Write(out)
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
