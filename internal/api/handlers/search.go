package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/courseloop/coursegw/internal/api"
	"github.com/courseloop/coursegw/internal/domain"
	"github.com/courseloop/coursegw/internal/searchsvc"
	"github.com/courseloop/coursegw/internal/service"
)

// SearchClient is the slice of the search backend client the proxy needs.
type SearchClient interface {
	Search(ctx context.Context, input searchsvc.SearchInput) (*searchsvc.SearchResponse, error)
	RagSearchRaw(ctx context.Context, input searchsvc.SearchInput) (*searchsvc.RawResponse, error)
}

// AnswerProvider produces grounded answers.
type AnswerProvider interface {
	Answer(ctx context.Context, input service.AnswerInput) (*domain.AnswerResult, error)
}

type SearchHandler struct {
	search SearchClient
	answer AnswerProvider
}

func NewSearchHandler(search SearchClient, answer AnswerProvider) *SearchHandler {
	return &SearchHandler{search: search, answer: answer}
}

type SearchRequest struct {
	Q        string `json:"q"`
	Query    string `json:"query"`
	CourseID string `json:"courseId"`
	Type     string `json:"type,omitempty"`
	TopK     int    `json:"topK,omitempty"`
}

type SearchResponse struct {
	Results []domain.SearchResult `json:"results"`
}

type RagRequest struct {
	CourseID string `json:"courseId"`
	Question string `json:"question"`
	TopK     int    `json:"topK,omitempty"`
}

type AnswerRequest struct {
	CourseID string `json:"courseId"`
	Question string `json:"question"`
	TopK     int    `json:"topK,omitempty"`
	Mode     string `json:"mode,omitempty"`
}

// Search validates the caller's query, forwards it to the search backend in
// lexical mode, and normalizes the ranked results. Queries shorter than two
// characters after trimming short-circuit to an empty result list without
// contacting the backend.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q := req.Q
	if q == "" {
		q = req.Query
	}
	if len(strings.TrimSpace(q)) < 2 {
		api.JSON(w, http.StatusOK, SearchResponse{Results: []domain.SearchResult{}})
		return
	}
	if req.CourseID == "" {
		api.Error(w, http.StatusBadRequest, "courseId is required (e.g. RAG101 / IR201 / LLM301)")
		return
	}

	topK := req.TopK
	if topK == 0 {
		topK = service.DefaultTopK
	}

	resp, err := h.search.Search(r.Context(), searchsvc.SearchInput{
		CourseID:  req.CourseID,
		Query:     q,
		Mode:      domain.SearchModeLexical,
		PageSize:  topK,
		AuthToken: bearerToken(r),
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	results := service.NormalizeResults(resp.Results, req.Type)
	api.JSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Rag proxies the backend's RAG retrieval, passing the upstream body and
// status through untouched. Only validation and transport failures are
// shaped by the gateway.
func (h *SearchHandler) Rag(w http.ResponseWriter, r *http.Request) {
	var req RagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CourseID == "" || req.Question == "" {
		api.Error(w, http.StatusBadRequest, "courseId and question are required")
		return
	}

	topK := req.TopK
	if topK == 0 {
		topK = service.DefaultTopK
	}

	raw, err := h.search.RagSearchRaw(r.Context(), searchsvc.SearchInput{
		CourseID:  req.CourseID,
		Query:     req.Question,
		Mode:      domain.SearchModeLexical,
		PageSize:  topK,
		AuthToken: bearerToken(r),
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(raw.Status)
	w.Write(raw.Body)
}

// Answer runs the full retrieve-then-generate flow and returns the answer
// with the source chunks it was grounded on.
func (h *SearchHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CourseID == "" {
		api.HandleError(w, domain.ErrMissingCourseID)
		return
	}
	if req.Question == "" {
		api.HandleError(w, domain.ErrMissingQuestion)
		return
	}

	result, err := h.answer.Answer(r.Context(), service.AnswerInput{
		CourseID:  req.CourseID,
		Question:  req.Question,
		TopK:      req.TopK,
		Mode:      domain.ParseSearchMode(req.Mode),
		AuthToken: bearerToken(r),
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, result)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
