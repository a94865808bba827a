// Package record reads and writes the CSV row formats shared by the
// generate, run and metrics stages. Quiz rows are
// (length, category, correct_answer, quiz_text); result rows append
// (model, provider, reasoning_effort, system_prompt, model_response).
// Field order is a contract: downstream stages consume files produced by
// earlier ones.
package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/stellarlinkco/lineage-bench/internal/quiz"
)

type QuizRow struct {
	Length   int
	Category quiz.Category
	Answer   int
	Text     string
}

type ResultRow struct {
	QuizRow
	Model    string
	Provider string
	Effort   string
	System   string
	Response string
}

func WriteQuizRows(w io.Writer, rows []QuizRow) error {
	cw := csv.NewWriter(w)
	for _, r := range rows {
		if err := WriteQuizRow(cw, r); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("record: flush quiz rows: %w", err)
	}
	return nil
}

// WriteQuizRow appends one quiz row to cw without flushing, so streaming
// producers can reuse a single writer. The caller flushes.
func WriteQuizRow(cw *csv.Writer, r QuizRow) error {
	if cw == nil {
		return errors.New("record: nil csv writer")
	}
	rec := []string{
		strconv.Itoa(r.Length),
		string(r.Category),
		strconv.Itoa(r.Answer),
		r.Text,
	}
	if err := cw.Write(rec); err != nil {
		return fmt.Errorf("record: write quiz row: %w", err)
	}
	return nil
}

func ReadQuizRows(r io.Reader) ([]QuizRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	var out []QuizRow
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("record: read quiz row: %w", err)
		}

		row, err := parseQuizFields(rec)
		if err != nil {
			return nil, fmt.Errorf("record: row %d: %w", line, err)
		}
		out = append(out, row)
	}
}

func WriteResultRows(w io.Writer, rows []ResultRow) error {
	cw := csv.NewWriter(w)
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Length),
			string(r.Category),
			strconv.Itoa(r.Answer),
			r.Text,
			r.Model,
			r.Provider,
			r.Effort,
			r.System,
			r.Response,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("record: write result row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("record: flush result rows: %w", err)
	}
	return nil
}

func ReadResultRows(r io.Reader) ([]ResultRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 9

	var out []ResultRow
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("record: read result row: %w", err)
		}

		qr, err := parseQuizFields(rec[:4])
		if err != nil {
			return nil, fmt.Errorf("record: row %d: %w", line, err)
		}
		out = append(out, ResultRow{
			QuizRow:  qr,
			Model:    rec[4],
			Provider: rec[5],
			Effort:   rec[6],
			System:   rec[7],
			Response: rec[8],
		})
	}
}

func parseQuizFields(rec []string) (QuizRow, error) {
	length, err := strconv.Atoi(rec[0])
	if err != nil {
		return QuizRow{}, fmt.Errorf("bad length %q", rec[0])
	}

	cat, err := quiz.ParseCategory(rec[1])
	if err != nil {
		return QuizRow{}, err
	}

	answer, err := strconv.Atoi(rec[2])
	if err != nil {
		return QuizRow{}, fmt.Errorf("bad answer index %q", rec[2])
	}

	return QuizRow{
		Length:   length,
		Category: cat,
		Answer:   answer,
		Text:     rec[3],
	}, nil
}
