/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docbricks-be/logger"
	"github.com/tieubaoca/docbricks-be/service"
)

// uploadPDFCmd represents the uploadPdf command
var uploadPDFCmd = &cobra.Command{
	Use:   "upload-pdf",
	Short: "Upload a local PDF into the workspace",
	Long: `Uploads a PDF file from the local filesystem into the configured
workspace directory, using the same import path as the HTTP upload endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		destDir, _ := cmd.Flags().GetString("dest-dir")
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		if filePath == "" {
			log.Fatal("--file is required")
		}

		content, err := os.ReadFile(filePath)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", filePath, err)
		}

		workspaceManager := service.NewWorkspaceManager(logger.New("workspace", logger.Config{Pretty: true}))
		user, err := workspaceManager.Connect(
			context.Background(),
			os.Getenv("DATABRICKS_HOST"),
			os.Getenv("DATABRICKS_TOKEN"),
		)
		if err != nil {
			log.Fatalf("Failed to connect to workspace: %v", err)
		}
		log.Printf("Connected as %s", user)

		gateway, err := workspaceManager.Gateway()
		if err != nil {
			log.Fatal(err)
		}

		targetPath := path.Join(destDir, filepath.Base(filePath))
		if err := gateway.Upload(context.Background(), content, targetPath, overwrite); err != nil {
			log.Fatalf("Upload failed: %v", err)
		}
		log.Printf("Uploaded %s to %s (%d bytes)", filePath, targetPath, len(content))
	},
}

func init() {
	rootCmd.AddCommand(uploadPDFCmd)

	uploadPDFCmd.Flags().StringP("file", "f", "", "Path to the PDF file to upload")
	uploadPDFCmd.Flags().StringP("dest-dir", "d", "/Shared/pdf_uploads", "Workspace directory to upload into")
	uploadPDFCmd.Flags().BoolP("overwrite", "o", true, "Overwrite an existing file at the target path")
}
