package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	rootCmd   = &cobra.Command{
		Use:   "sysmod",
		Short: "Sysmod CLI - issue download subjects to the intake server",
		Long:  `A command-line interface for issuing module installs, app updates and throughput tests.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")

	rootCmd.AddCommand(moduleCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(nettestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(claimCmd)
}

var moduleCmd = &cobra.Command{
	Use:   "module [zip-url]",
	Short: "Issue a module-install subject",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		version, _ := cmd.Flags().GetString("version")
		versionCode, _ := cmd.Flags().GetInt64("version-code")
		noLaunch, _ := cmd.Flags().GetBool("no-launch")

		autoLaunch := !noLaunch
		payload := map[string]interface{}{
			"name":         name,
			"version":      version,
			"version_code": versionCode,
			"zip_url":      args[0],
			"auto_launch":  autoLaunch,
		}
		record := postSubject("/api/v1/subjects/module", payload)
		printRecord(record)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [link]",
	Short: "Issue an app-update subject",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		version, _ := cmd.Flags().GetString("version")
		versionCode, _ := cmd.Flags().GetInt64("version-code")

		payload := map[string]interface{}{
			"name":         name,
			"version":      version,
			"version_code": versionCode,
			"link":         args[0],
		}
		record := postSubject("/api/v1/subjects/update", payload)
		printRecord(record)
	},
}

var nettestCmd = &cobra.Command{
	Use:   "nettest",
	Short: "Issue a throughput-test subject",
	Run: func(cmd *cobra.Command, args []string) {
		title, _ := cmd.Flags().GetString("title")

		payload := map[string]interface{}{}
		if title != "" {
			payload["title"] = title
		}
		record := postSubject("/api/v1/subjects/test", payload)
		printRecord(record)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List issued subjects",
	Run: func(cmd *cobra.Command, args []string) {
		kind, _ := cmd.Flags().GetString("kind")
		status, _ := cmd.Flags().GetString("status")

		url := serverURL + "/api/v1/subjects"
		sep := "?"
		if kind != "" {
			url += sep + "kind=" + kind
			sep = "&"
		}
		if status != "" {
			url += sep + "status=" + status
		}

		resp, err := http.Get(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var records []map[string]interface{}
		json.Unmarshal(body, &records)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tTITLE\tNOTIFY\tSTATUS\tCREATED")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\t%s\n",
				truncate(str(r["id"]), 8),
				str(r["kind"]),
				truncate(str(r["title"]), 40),
				r["notify_id"],
				str(r["status"]),
				str(r["created_at"]))
		}
		w.Flush()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show handoff queue statistics",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := http.Get(serverURL + "/api/v1/subjects/stats")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var stats map[string]interface{}
		json.Unmarshal(body, &stats)

		fmt.Println("Subject Statistics:")
		fmt.Printf("  Total:     %v\n", stats["total"])
		fmt.Printf("  Issued:    %v\n", stats["issued"])
		fmt.Printf("  Claimed:   %v\n", stats["claimed"])
		fmt.Printf("  Modules:   %v\n", stats["modules"])
		fmt.Printf("  Updates:   %v\n", stats["updates"])
		fmt.Printf("  Net tests: %v\n", stats["net_tests"])
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim the next issued subject (what the transfer engine does)",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := http.Post(serverURL+"/api/v1/subjects/claim", "application/json", nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNoContent {
			fmt.Println("Queue is empty")
			return
		}

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		var record map[string]interface{}
		json.Unmarshal(body, &record)
		printRecord(record)
		fmt.Printf("Envelope: %s\n", str(record["envelope"]))
	},
}

func init() {
	moduleCmd.Flags().String("name", "", "Module name")
	moduleCmd.Flags().String("version", "", "Module version string")
	moduleCmd.Flags().Int64("version-code", 0, "Module version code")
	moduleCmd.Flags().Bool("no-launch", false, "Do not open the install flow automatically")
	moduleCmd.MarkFlagRequired("name")

	updateCmd.Flags().String("name", "", "Application name")
	updateCmd.Flags().String("version", "", "Release version string")
	updateCmd.Flags().Int64("version-code", 0, "Release version code")
	updateCmd.MarkFlagRequired("name")

	nettestCmd.Flags().String("title", "", "Override the generated title token")

	listCmd.Flags().String("kind", "", "Filter by kind (module, app_update, net_test)")
	listCmd.Flags().String("status", "", "Filter by status (issued, claimed)")
}

// postSubject posts a subject request and returns the created record
func postSubject(path string, payload map[string]interface{}) map[string]interface{} {
	data, _ := json.Marshal(payload)
	resp, err := http.Post(serverURL+path, "application/json", bytes.NewBuffer(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
		os.Exit(1)
	}

	var record map[string]interface{}
	json.Unmarshal(body, &record)
	return record
}

func printRecord(record map[string]interface{}) {
	fmt.Println("Subject issued!")
	fmt.Printf("ID:          %s\n", str(record["id"]))
	fmt.Printf("Kind:        %s\n", str(record["kind"]))
	fmt.Printf("Title:       %s\n", str(record["title"]))
	fmt.Printf("URL:         %s\n", str(record["url"]))
	fmt.Printf("Notify ID:   %v\n", record["notify_id"])
	fmt.Printf("Auto launch: %v\n", record["auto_launch"])
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
