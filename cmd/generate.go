package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/lezen/internal/export"
	"github.com/abhisek/lezen/internal/reading"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one passage and print or save it",
	Example: `  lezen generate --grade 6 --length middel --questions 3 --topic vulkanen
  lezen generate --topic "de Romeinen" --format docx --answers
  lezen generate --topic vriendschap --format json --out tekst.json`,
	RunE: runGenerate,
}

func init() {
	addGenerateFlags(generateCmd)
	_ = generateCmd.MarkFlagRequired("topic")
}

func addGenerateFlags(c *cobra.Command) {
	c.Flags().String("grade", string(reading.DefaultGrade), `Grade: 4-8 or "Groep N"`)
	c.Flags().String("length", reading.DefaultLength.Label(), "Length: kort, middel or lang")
	c.Flags().Int("questions", reading.DefaultQuestions, "Number of questions (1-10)")
	c.Flags().String("topic", "", "Topic of the passage (required)")
	c.Flags().String("format", "text", "Output format: text, json or docx")
	c.Flags().Bool("answers", false, "Write the answer key instead of the worksheet (text and docx)")
	c.Flags().StringP("out", "o", "", `Output file ("-" for stdout; docx defaults to a file in export.dir)`)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	answers, _ := cmd.Flags().GetBool("answers")
	out, _ := cmd.Flags().GetString("out")

	var exporter export.Exporter
	switch format {
	case "text":
		exporter = export.NewText()
	case "docx":
		exporter = export.NewDOCX()
	case "json":
	default:
		return fmt.Errorf("unknown format %q (want text, json or docx)", format)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	rt, err := newRuntime(cmd, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	gen, err := rt.generator(ctx)
	if err != nil {
		return err
	}

	content, err := gen.Generate(ctx, req)
	if err != nil {
		_, msg := reading.Describe(err)
		rt.log.Error("generation failed", zap.Error(err))
		return errors.New(msg)
	}

	if exporter == nil {
		data, err := json.MarshalIndent(content, "", "  ")
		if err != nil {
			return fmt.Errorf("encode content: %w", err)
		}
		return writeOutput(cmd, out, append(data, '\n'))
	}

	if err := export.Check(exporter); err != nil {
		return err
	}
	variant := export.Worksheet
	if answers {
		variant = export.AnswerKey
	}
	doc := export.FromContent(content)
	data, err := exporter.Export(doc, variant)
	if err != nil {
		return fmt.Errorf("export %s: %w", variant, err)
	}

	if out == "" && format == "docx" {
		out = filepath.Join(rt.cfg.Export.Dir, export.Filename(doc, variant, exporter.Extension()))
	}
	if err := writeOutput(cmd, out, data); err != nil {
		return err
	}
	if out != "" && out != "-" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Opgeslagen:", out)
	}
	return nil
}

// requestFromFlags parses the request flags. Range checks are left to
// Request.Validate.
func requestFromFlags(cmd *cobra.Command) (reading.Request, error) {
	gradeVal, _ := cmd.Flags().GetString("grade")
	lengthVal, _ := cmd.Flags().GetString("length")
	count, _ := cmd.Flags().GetInt("questions")
	topic, _ := cmd.Flags().GetString("topic")

	grade, err := reading.ParseGrade(gradeVal)
	if err != nil {
		return reading.Request{}, err
	}
	length, err := reading.ParseLength(lengthVal)
	if err != nil {
		return reading.Request{}, err
	}
	return reading.Request{
		Grade:         grade,
		Length:        length,
		QuestionCount: count,
		Topic:         topic,
	}, nil
}

// writeOutput writes data to path, or to stdout when path is "" or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
