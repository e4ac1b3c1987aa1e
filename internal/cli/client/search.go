package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// SearchRequest represents the search API request.
type SearchRequest struct {
	Q        string `json:"q"`
	CourseID string `json:"courseId"`
	Type     string `json:"type,omitempty"`
	TopK     int    `json:"topK,omitempty"`
}

// SearchResult represents a search result.
type SearchResult struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	CourseID string  `json:"courseId"`
	Type     string  `json:"type"`
	URL      string  `json:"url,omitempty"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
}

// SearchResponse represents the search API response.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	var (
		courseID   string
		resultType string
		topK       int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search course documents",
		Long:  "Searches a course's documents through the gateway.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runSearch(args[0], courseID, resultType, topK, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&courseID, "course", "c", "", "Course ID (required, e.g. RAG101)")
	cmd.Flags().StringVarP(&resultType, "type", "t", "", "Filter by result type")
	cmd.Flags().IntVarP(&topK, "top-k", "n", 5, "Maximum number of results")
	cmd.MarkFlagRequired("course")

	return cmd
}

func runSearch(query, courseID, resultType string, topK int, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	req := SearchRequest{
		Q:        query,
		CourseID: courseID,
		Type:     resultType,
		TopK:     topK,
	}

	var searchResp SearchResponse
	if err := api.Post("/api/search", req, &searchResp); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(searchResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(searchResp.Results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results:\n\n", len(searchResp.Results))
	for i, result := range searchResp.Results {
		fmt.Printf("%d. %s (%.2f)\n", i+1, result.Title, result.Score)
		if result.Snippet != "" {
			snippet := result.Snippet
			if len(snippet) > 100 {
				snippet = snippet[:97] + "..."
			}
			fmt.Printf("   %s\n", snippet)
		}
		if result.URL != "" {
			fmt.Printf("   URL: %s\n", result.URL)
		}
		fmt.Printf("   ID: %s\n", result.ID)
		if i < len(searchResp.Results)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}

	return nil
}
