package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qodex-ai/apimesh/internal/config"
	"github.com/qodex-ai/apimesh/internal/pipeline"
)

// endpointsCmd represents the endpoints command
var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List detected HTTP endpoints without documenting them",
	Long: `Endpoints runs only the scan and detection phases and prints every
detected endpoint as JSON. Useful for checking detection coverage before
spending LLM calls on a full generate run.

Records with an empty route are endpoints whose path could not be determined
statically (e.g. template literals with interpolation).`,
	RunE: runEndpoints,
}

func init() {
	rootCmd.AddCommand(endpointsCmd)
}

func runEndpoints(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigFromDir(dirFlag)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	records, err := pipeline.ListEndpoints(dirFlag, cfg.Scan)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "    ")
	return encoder.Encode(records)
}
