package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/lecture-room-api/internal/models"
	"github.com/noah-isme/lecture-room-api/internal/scheduler"
	"github.com/noah-isme/lecture-room-api/internal/service"
	"github.com/noah-isme/lecture-room-api/pkg/export"
	"github.com/noah-isme/lecture-room-api/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("schedule-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		roomsPath    = fs.String("rooms", "", "CSV file with room_name,capacity columns")
		lecturesPath = fs.String("lectures", "", "CSV file with department,level,subject_name,group_name,student_count,mode,day,time columns")
		inputPath    = fs.String("input", "", "JSON file with rooms and lectures arrays; replaces -rooms and -lectures")
		delim        = fs.String("delim", "", "CSV delimiter, detected from the header when empty")
		strategy     = fs.String("strategy", string(scheduler.CombinationExhaustive), "combination search: exhaustive or greedy")
		maxRooms     = fs.Int("max-exhaustive-rooms", scheduler.DefaultMaxExhaustiveRooms, "catalog size above which exhaustive search falls back to greedy")
		outPath      = fs.String("out", "", "write the schedule CSV here instead of stdout")
		logLevel     = fs.String("log-level", "info", "log level")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logr, err := logger.NewCLI(*logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return 1
	}
	defer logr.Sync() //nolint:errcheck

	combination, err := scheduler.ParseCombinationStrategy(*strategy)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	rooms, lectures, err := loadInput(*inputPath, *roomsPath, *lecturesPath, *delim)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	catalog, err := service.BuildCatalog(rooms)
	if err != nil {
		fmt.Fprintf(stderr, "invalid rooms: %v\n", err)
		return 1
	}

	engine := scheduler.New(
		scheduler.WithLogger(logr.Named("scheduler")),
		scheduler.WithCombinationStrategy(combination),
		scheduler.WithMaxExhaustiveRooms(*maxRooms),
	)
	result, err := engine.Run(catalog, service.EngineLectures(lectures))
	if err != nil {
		if errors.Is(err, scheduler.ErrInvariantViolation) {
			logr.Error("schedule rejected", zap.Error(err))
		}
		fmt.Fprintf(stderr, "schedule failed: %v\n", err)
		return 1
	}

	entries := service.ScheduleEntries("", result.Assignments)
	slices.SortStableFunc(entries, func(a, b models.LectureScheduleEntry) int {
		return strings.Compare(a.RoomName+"\x00"+a.Day+"\x00"+a.Time, b.RoomName+"\x00"+b.Day+"\x00"+b.Time)
	})
	body, err := export.NewCSVExporter().Render(service.TimetableRows(entries))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *outPath == "" {
		if _, err := stdout.Write(body); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	} else if err := os.WriteFile(*outPath, body, 0o644); err != nil {
		fmt.Fprintf(stderr, "write %s: %v\n", *outPath, err)
		return 1
	}

	for _, l := range result.Unassigned {
		fmt.Fprintf(stderr, "unassigned: %s on %s at %s (%d attendees, %s)\n", l.Label(), l.Day, l.Time, l.Attendees(), l.Mode)
	}
	logr.Info("schedule built",
		zap.Int("lectures", len(lectures)),
		zap.Int("bookings", len(result.Assignments)),
		zap.Int("unassigned", len(result.Unassigned)),
		zap.Int("combinations", result.CombinationPlacements),
	)
	return 0
}

func loadInput(inputPath, roomsPath, lecturesPath, delim string) ([]models.Room, []models.Lecture, error) {
	var (
		roomRecords    []roomRecord
		lectureRecords []lectureRecord
	)
	switch {
	case inputPath != "":
		in, err := loadJSON(inputPath)
		if err != nil {
			return nil, nil, err
		}
		roomRecords, lectureRecords = in.Rooms, in.Lectures
	case roomsPath != "" && lecturesPath != "":
		sep, err := parseDelimiter(delim)
		if err != nil {
			return nil, nil, err
		}
		if roomRecords, err = loadCSV[roomRecord](roomsPath, sep); err != nil {
			return nil, nil, err
		}
		if lectureRecords, err = loadCSV[lectureRecord](lecturesPath, sep); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, errors.New("either -input or both -rooms and -lectures are required")
	}

	lectures, err := toLectures(lectureRecords)
	if err != nil {
		return nil, nil, err
	}
	return toRooms(roomRecords), lectures, nil
}

func parseDelimiter(raw string) (rune, error) {
	switch raw {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	runes := []rune(raw)
	if len(runes) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", raw)
	}
	return runes[0], nil
}
