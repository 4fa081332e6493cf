/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docbricks-be/logger"
	"github.com/tieubaoca/docbricks-be/service"
)

// runSQLCmd represents the runSql command
var runSQLCmd = &cobra.Command{
	Use:   "run-sql",
	Short: "Execute a SQL statement on a workspace warehouse",
	Long: `Executes a SQL statement against a SQL warehouse and prints the mapped
result rows. Without --warehouse the first available warehouse is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		statement, _ := cmd.Flags().GetString("query")
		warehouseID, _ := cmd.Flags().GetString("warehouse")

		if statement == "" {
			log.Fatal("--query is required")
		}

		workspaceManager := service.NewWorkspaceManager(logger.New("workspace", logger.Config{Pretty: true}))
		if _, err := workspaceManager.Connect(
			context.Background(),
			os.Getenv("DATABRICKS_HOST"),
			os.Getenv("DATABRICKS_TOKEN"),
		); err != nil {
			log.Fatalf("Failed to connect to workspace: %v", err)
		}

		gateway, err := workspaceManager.Gateway()
		if err != nil {
			log.Fatal(err)
		}

		result := gateway.ExecuteQuery(context.Background(), statement, warehouseID)
		if !result.Success {
			log.Fatalf("Query failed: %s", result.Error)
		}

		log.Printf("Statement %s on warehouse %s returned %d rows", result.StatementID, result.WarehouseID, len(result.Rows))
		for _, row := range result.Rows {
			encoded, err := json.Marshal(row)
			if err != nil {
				continue
			}
			fmt.Println(string(encoded))
		}
	},
}

func init() {
	rootCmd.AddCommand(runSQLCmd)

	runSQLCmd.Flags().StringP("query", "q", "", "SQL statement to execute")
	runSQLCmd.Flags().StringP("warehouse", "w", "", "Warehouse ID (defaults to the first available)")
}
