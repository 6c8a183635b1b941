package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/lezen/internal/app"
	"github.com/abhisek/lezen/internal/export"
)

var rootCmd = &cobra.Command{
	Use:   "lezen",
	Short: "Reading comprehension worksheets for Dutch primary school",
	Long: `Lezen generates a short Dutch reading passage with multiple-choice
questions for a chosen grade (Groep 4-8), length and topic.

Without a subcommand the terminal UI starts. Use "lezen serve" for the
browser UI and "lezen generate" for one-shot output.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Logs would draw over the alternate screen unless sent to a file.
		rt, err := newRuntime(cmd, io.Discard)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		gen, err := rt.generator(ctx)
		if err != nil {
			return err
		}

		return app.Run(ctx, app.Options{
			Generator: gen,
			Documents: export.NewDOCX(),
			Printer:   export.NewText(),
			ExportDir: rt.cfg.Export.Dir,
		})
	},
}

// Execute runs the root command. Canceling ctx stops the running command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML or TOML config file")
	rootCmd.PersistentFlags().String("db", "", `Request log database ("auto" for the XDG data dir, empty disables)`)
	rootCmd.PersistentFlags().String("provider", "", "LLM provider: gemini, openai, anthropic, openrouter or mock")
	rootCmd.PersistentFlags().String("model", "", "Model name for the selected provider")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
