package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/qodex-ai/apimesh/internal/config"
	"github.com/qodex-ai/apimesh/internal/generator"
	"github.com/qodex-ai/apimesh/internal/git"
	"github.com/qodex-ai/apimesh/internal/pipeline"
)

var (
	hostFlag   string
	outputFlag string
	modelFlag  string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an OpenAPI document for the codebase",
	Long: `Generate scans the target directory, detects HTTP endpoints, and writes
an OpenAPI 3.0 document describing them.

The LLM API key is read from the environment variable named by llm.api_key_env
(GEMINI_API_KEY by default). A .env file in the working directory is loaded
automatically.

Examples:
  # Document the current directory
  apimesh generate

  # Document another repo and write the result elsewhere
  apimesh generate --dir ../my-service --output docs/openapi.json

  # Override the advertised server URL
  apimesh generate --host https://api.example.com
`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&hostFlag, "host", "", "server URL advertised in the document (overrides config)")
	generateCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output file path (overrides config)")
	generateCmd.Flags().StringVar(&modelFlag, "model", "", "LLM model name (overrides config)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling generation...")
		cancel()
	}()

	// A missing .env file is fine; explicit environment always wins.
	godotenv.Load()

	cfg, err := config.LoadConfigFromDir(dirFlag)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if hostFlag != "" {
		cfg.Output.Host = hostFlag
	}
	if outputFlag != "" {
		cfg.Output.File = outputFlag
	}
	if modelFlag != "" {
		cfg.LLM.Model = modelFlag
	}

	apiKey := strings.TrimSpace(os.Getenv(cfg.LLM.APIKeyEnv))
	if apiKey == "" {
		return fmt.Errorf("no API key: set %s in the environment or a .env file", cfg.LLM.APIKeyEnv)
	}

	gen, err := generator.NewGeminiGenerator(ctx, apiKey, cfg.LLM.Model)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	progress := NewCLIProgressReporter(quietFlag)
	p := pipeline.New(cfg, gen, git.NewOperations(), progress)

	doc, err := p.Run(ctx, dirFlag)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("generation cancelled")
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	outPath := cfg.Output.File
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(dirFlag, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	if !quietFlag {
		fmt.Printf("✓ Wrote %d paths to %s\n", len(doc.Paths), outPath)
	}
	return nil
}
