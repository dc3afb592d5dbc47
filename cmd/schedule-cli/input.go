package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/mitchellh/mapstructure"

	"github.com/noah-isme/lecture-room-api/internal/models"
	"github.com/noah-isme/lecture-room-api/internal/scheduler"
	"github.com/noah-isme/lecture-room-api/internal/service"
	appErrors "github.com/noah-isme/lecture-room-api/pkg/errors"
)

type roomRecord struct {
	Name     string `csv:"room_name" mapstructure:"room_name"`
	Capacity int    `csv:"capacity" mapstructure:"capacity"`
}

type lectureRecord struct {
	ID           string `csv:"id" mapstructure:"id"`
	Department   string `csv:"department" mapstructure:"department"`
	Level        string `csv:"level" mapstructure:"level"`
	SubjectName  string `csv:"subject_name" mapstructure:"subject_name"`
	GroupName    string `csv:"group_name" mapstructure:"group_name"`
	StudentCount int    `csv:"student_count" mapstructure:"student_count"`
	Mode         string `csv:"mode" mapstructure:"mode"`
	Day          string `csv:"day" mapstructure:"day"`
	Time         string `csv:"time" mapstructure:"time"`
}

// runInput is the single-file form accepted by -input.
type runInput struct {
	Rooms    []roomRecord    `mapstructure:"rooms"`
	Lectures []lectureRecord `mapstructure:"lectures"`
}

func loadCSV[T any](path string, delim rune) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if delim == 0 {
		delim = sniffDelimiter(data)
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.TrimLeadingSpace = true

	var out []T
	if err := gocsv.UnmarshalCSV(r, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// sniffDelimiter picks ';' or ',' from the header line.
func sniffDelimiter(data []byte) rune {
	header, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}

func loadJSON(path string) (*runInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var in runInput
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &in,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &in, nil
}

func toRooms(records []roomRecord) []models.Room {
	rooms := make([]models.Room, 0, len(records))
	for _, r := range records {
		rooms = append(rooms, models.Room{Name: strings.TrimSpace(r.Name), Capacity: r.Capacity})
	}
	return rooms
}

func toLectures(records []lectureRecord) ([]models.Lecture, error) {
	lectures := make([]models.Lecture, 0, len(records))
	for i, r := range records {
		row := i + 1
		mode, err := scheduler.ParseMode(r.Mode)
		if err != nil {
			return nil, fmt.Errorf("lecture %d: %w", row, err)
		}
		t, err := service.NormalizeTime(r.Time)
		if errors.Is(err, appErrors.ErrInvalidTime) {
			return nil, fmt.Errorf("lecture %d: time %q is not a number", row, r.Time)
		} else if err != nil {
			return nil, fmt.Errorf("lecture %d: %w", row, err)
		}
		if r.StudentCount < 0 {
			return nil, fmt.Errorf("lecture %d: student_count must not be negative", row)
		}
		id := strings.TrimSpace(r.ID)
		if id == "" {
			id = fmt.Sprintf("L%d", row)
		}
		lectures = append(lectures, models.Lecture{
			ID:           id,
			Department:   strings.TrimSpace(r.Department),
			Level:        strings.TrimSpace(r.Level),
			SubjectName:  strings.TrimSpace(r.SubjectName),
			GroupName:    strings.TrimSpace(r.GroupName),
			StudentCount: r.StudentCount,
			Mode:         models.LectureMode(mode),
			Day:          strings.TrimSpace(r.Day),
			Time:         t,
		})
	}
	return lectures, nil
}
