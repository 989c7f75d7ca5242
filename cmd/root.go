package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "photo-engine",
	Short: "Compute photo signatures and cluster faces into persons",
	Long: `Photo Engine analyzes a photo library on the local machine: it computes
per-photo perceptual signatures (DCT hash, appearance metrics, quality
score), finds near-duplicate groups, and clusters externally generated face
embeddings into persons. All analysis runs on-device; nothing leaves the
machine.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
