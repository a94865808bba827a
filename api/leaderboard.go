package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type standingResponse struct {
	Rank    int     `json:"rank"`
	Model   string  `json:"model"`
	Lineage float64 `json:"lineage"`
	Entries int     `json:"entries"`
}

type historyEntryResponse struct {
	Model     string  `json:"model"`
	Provider  string  `json:"provider"`
	Size      int     `json:"problem_size"`
	Score     float64 `json:"score"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Missing   int     `json:"missing"`
	EvalDate  string  `json:"eval_date"`
}

func (s *Server) handleGetLeaderboard(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("score store not configured"))
		return
	}

	limit := 20
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}
		if n > 100 {
			n = 100
		}
		limit = n
	}

	standings, err := s.store.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]standingResponse, 0, len(standings))
	for i, st := range standings {
		out = append(out, standingResponse{
			Rank:    i + 1,
			Model:   st.Model,
			Lineage: st.Lineage,
			Entries: st.Entries,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetModelHistory(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("score store not configured"))
		return
	}

	model := strings.TrimSpace(c.Query("model"))
	if model == "" {
		respondError(c, http.StatusBadRequest, errors.New("model is required"))
		return
	}

	scores, err := s.store.ModelHistory(c.Request.Context(), model)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]historyEntryResponse, 0, len(scores))
	for _, sc := range scores {
		out = append(out, historyEntryResponse{
			Model:     sc.Model,
			Provider:  sc.Provider,
			Size:      sc.Size,
			Score:     sc.Score,
			Correct:   sc.Correct,
			Incorrect: sc.Incorrect,
			Missing:   sc.Missing,
			EvalDate:  sc.EvalDate.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}
