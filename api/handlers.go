package api

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stellarlinkco/lineage-bench/internal/quiz"
)

// maxBatchQuizzes caps a single /quizzes request so a stray number parameter
// cannot tie up the server rendering thousands of prompts.
const maxBatchQuizzes = 1000

type quizResponse struct {
	Length        int    `json:"length"`
	Category      string `json:"category"`
	Subject       string `json:"subject"`
	Object        string `json:"object"`
	CorrectAnswer int    `json:"correct_answer"`
	Quiz          string `json:"quiz"`
}

type quizBatchResponse struct {
	Seed    int64          `json:"seed"`
	Quizzes []quizResponse `json:"quizzes"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGetQuiz(c *gin.Context) {
	length, err := parseIntParam(c.Query("length"), s.defaultLength())
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	category := quiz.Ancestor
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		category, err = quiz.ParseCategory(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}
	}

	seed, err := parseSeedParam(c.Query("seed"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	shuffle, err := parseBoolParam(c.Query("shuffle"), s.defaultShuffle())
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	q, err := quiz.Generate(length, category, quiz.DefaultTemplate, shuffle, rand.New(rand.NewSource(seed)))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"seed": seed,
		"quiz": toQuizResponse(q),
	})
}

func (s *Server) handleListQuizzes(c *gin.Context) {
	length, err := parseIntParam(c.Query("length"), s.defaultLength())
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	number, err := parseIntParam(c.Query("number"), s.defaultNumber())
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	var types []quiz.Category
	if raw := strings.TrimSpace(c.Query("types")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			cat, err := quiz.ParseCategory(part)
			if err != nil {
				respondError(c, http.StatusBadRequest, err)
				return
			}
			types = append(types, cat)
		}
	}

	seed, err := parseSeedParam(c.Query("seed"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	shuffle, err := parseBoolParam(c.Query("shuffle"), s.defaultShuffle())
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	typeCount := len(types)
	if typeCount == 0 {
		typeCount = len(quiz.Categories())
	}
	if number*typeCount > maxBatchQuizzes {
		respondError(c, http.StatusBadRequest,
			fmt.Errorf("batch of %d quizzes exceeds the limit of %d", number*typeCount, maxBatchQuizzes))
		return
	}

	stream, err := quiz.NewStream(quiz.Options{
		Length:     length,
		NumQuizzes: number,
		Types:      types,
		Shuffle:    shuffle,
		Seed:       seed,
	})
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	resp := quizBatchResponse{Seed: seed, Quizzes: make([]quizResponse, 0, stream.Remaining())}
	for {
		q, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, err)
			return
		}
		resp.Quizzes = append(resp.Quizzes, toQuizResponse(q))
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) defaultLength() int {
	if s != nil && s.config != nil && len(s.config.Benchmark.Lengths) > 0 {
		return s.config.Benchmark.Lengths[0]
	}
	return 8
}

func (s *Server) defaultNumber() int {
	if s != nil && s.config != nil && s.config.Benchmark.QuizzesPerType > 0 {
		return s.config.Benchmark.QuizzesPerType
	}
	return 10
}

func (s *Server) defaultShuffle() bool {
	return s != nil && s.config != nil && s.config.Benchmark.Shuffle
}

func toQuizResponse(q *quiz.Quiz) quizResponse {
	if q == nil {
		return quizResponse{}
	}
	return quizResponse{
		Length:        q.Length,
		Category:      string(q.Category),
		Subject:       q.Subject,
		Object:        q.Object,
		CorrectAnswer: q.Answer,
		Quiz:          q.Text,
	}
}

func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseIntParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid integer parameter %q", raw)
	}
	return v, nil
}

func parseSeedParam(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UnixNano(), nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q", raw)
	}
	return v, nil
}

func parseBoolParam(raw string, fallback bool) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid boolean parameter %q", raw)
	}
	return v, nil
}
