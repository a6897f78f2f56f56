package cmd

import (
	"errors"
	"fmt"

	"ewintr.nl/ytideas/config"
	"ewintr.nl/ytideas/storage"
	"github.com/spf13/cobra"
)

var resetSchemaCmd = &cobra.Command{
	Use:   "reset-schema",
	Short: "Drop and recreate the Weaviate class for video ideas",
	Long:  `Drop and recreate the Weaviate class for video ideas. All stored ideas are lost.`,
	Args:  cobra.NoArgs,
	RunE:  runResetSchema,
}

func runResetSchema(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.WeaviateHost == "" {
		return errors.New("WEAVIATE_HOST is not set")
	}

	wv, err := storage.NewWeaviate(cfg.Weaviate())
	if err != nil {
		return fmt.Errorf("unable to create weaviate client: %w", err)
	}
	if err := wv.ResetSchema(cmd.Context()); err != nil {
		return fmt.Errorf("unable to reset schema: %w", err)
	}

	newLogger(cmd).Info("weaviate schema reset")
	return nil
}
