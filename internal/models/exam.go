package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrRecordIndex is returned when an exam record position does not exist.
var ErrRecordIndex = errors.New("exam record index out of range")

// Scalar is a result field stored either as a number or as free text
// (e.g. "AIR 12" or "99.5 %"). Numeric values keep their numeric JSON form.
type Scalar string

// MarshalJSON implements json.Marshaler.
func (v Scalar) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(v), 64); err == nil && json.Valid([]byte(v)) {
		return []byte(v), nil
	}
	return json.Marshal(string(v))
}

// UnmarshalJSON implements json.Unmarshaler. Booleans are kept as their
// literal text.
func (v *Scalar) UnmarshalJSON(data []byte) error {
	switch {
	case string(data) == "null":
		*v = ""
		return nil
	case string(data) == "true" || string(data) == "false":
		*v = Scalar(data)
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Scalar(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("scalar: %w", err)
	}
	*v = Scalar(n.String())
	return nil
}

// ExamRecord is one published result.
type ExamRecord struct {
	AIR     Scalar `json:"air"`
	Name    string `json:"name" validate:"required"`
	Program string `json:"program"`
	Score   Scalar `json:"score"`
	URL     string `json:"url"`
}

// ExamResults groups records by exam name, then by year.
type ExamResults map[string]map[string][]ExamRecord

// Clone returns a deep copy that never aliases r.
func (r ExamResults) Clone() ExamResults {
	out := make(ExamResults, len(r))
	for exam, years := range r {
		copied := make(map[string][]ExamRecord, len(years))
		for year, records := range years {
			copied[year] = append([]ExamRecord(nil), records...)
		}
		out[exam] = copied
	}
	return out
}

// Add appends record under exam/year and returns the new tree.
func (r ExamResults) Add(exam, year string, record ExamRecord) ExamResults {
	out := r.Clone()
	if out[exam] == nil {
		out[exam] = make(map[string][]ExamRecord)
	}
	out[exam][year] = append(out[exam][year], record)
	return out
}

// Replace swaps the record at index and returns the new tree.
func (r ExamResults) Replace(exam, year string, index int, record ExamRecord) (ExamResults, error) {
	if !r.has(exam, year, index) {
		return nil, ErrRecordIndex
	}
	out := r.Clone()
	out[exam][year][index] = record
	return out, nil
}

// Remove deletes the record at index. A year left empty is dropped, and an
// exam left without years is dropped too.
func (r ExamResults) Remove(exam, year string, index int) (ExamResults, error) {
	if !r.has(exam, year, index) {
		return nil, ErrRecordIndex
	}
	out := r.Clone()
	records := out[exam][year]
	records = append(records[:index], records[index+1:]...)
	if len(records) == 0 {
		delete(out[exam], year)
	} else {
		out[exam][year] = records
	}
	if len(out[exam]) == 0 {
		delete(out, exam)
	}
	return out, nil
}

// Years lists the years recorded for exam, newest first.
func (r ExamResults) Years(exam string) []string {
	years := make([]string, 0, len(r[exam]))
	for year := range r[exam] {
		years = append(years, year)
	}
	sort.SliceStable(years, func(i, j int) bool {
		a, errA := strconv.Atoi(years[i])
		b, errB := strconv.Atoi(years[j])
		if errA != nil || errB != nil {
			return years[i] > years[j]
		}
		return a > b
	})
	return years
}

// Exams lists exam names alphabetically.
func (r ExamResults) Exams() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r ExamResults) has(exam, year string, index int) bool {
	records, ok := r[exam][year]
	return ok && index >= 0 && index < len(records)
}
