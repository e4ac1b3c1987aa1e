package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// AnswerRequest represents the answer API request.
type AnswerRequest struct {
	CourseID string `json:"courseId"`
	Question string `json:"question"`
	TopK     int    `json:"topK,omitempty"`
	Mode     string `json:"mode,omitempty"`
}

// AnswerSource is one chunk the answer was grounded on.
type AnswerSource struct {
	ID         string   `json:"id"`
	Title      string   `json:"title,omitempty"`
	ChunkIndex *int     `json:"chunk_index,omitempty"`
	Content    string   `json:"content,omitempty"`
	Score      *float64 `json:"score,omitempty"`
}

// AnswerResponse represents the answer API response.
type AnswerResponse struct {
	Answer  string         `json:"answer"`
	Sources []AnswerSource `json:"sources"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var (
		courseID string
		topK     int
		mode     string
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a grounded question",
		Long:  "Asks a question answered only from a course's documents, with citations.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAsk(args[0], courseID, topK, mode, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&courseID, "course", "c", "", "Course ID (required, e.g. RAG101)")
	cmd.Flags().IntVarP(&topK, "top-k", "n", 5, "Number of chunks to retrieve")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Retrieval mode: lexical, vector, or hybrid")
	cmd.MarkFlagRequired("course")

	return cmd
}

func runAsk(question, courseID string, topK int, mode string, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	req := AnswerRequest{
		CourseID: courseID,
		Question: question,
		TopK:     topK,
		Mode:     mode,
	}

	var answerResp AnswerResponse
	if err := api.Post("/api/answer", req, &answerResp); err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(answerResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(answerResp.Answer)

	if len(answerResp.Sources) > 0 {
		fmt.Printf("\nSources:\n")
		for i, src := range answerResp.Sources {
			title := src.Title
			if title == "" {
				title = src.ID
			}
			fmt.Printf("  [%d] %s", i+1, title)
			if src.Score != nil {
				fmt.Printf(" (%.2f)", *src.Score)
			}
			fmt.Println()
		}
	}

	return nil
}
