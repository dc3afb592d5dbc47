package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lecture-room-api/internal/dto"
	"github.com/noah-isme/lecture-room-api/internal/models"
	appErrors "github.com/noah-isme/lecture-room-api/pkg/errors"
)

type mockLectureRepo struct {
	items map[string]*models.Lecture
}

func (m *mockLectureRepo) List(ctx context.Context, filter models.LectureFilter) ([]models.Lecture, int, error) {
	out := make([]models.Lecture, 0, len(m.items))
	for _, l := range m.items {
		out = append(out, *l)
	}
	return out, len(out), nil
}

func (m *mockLectureRepo) FindByID(ctx context.Context, id string) (*models.Lecture, error) {
	if l, ok := m.items[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockLectureRepo) Create(ctx context.Context, lecture *models.Lecture) error {
	if m.items == nil {
		m.items = make(map[string]*models.Lecture)
	}
	if lecture.ID == "" {
		lecture.ID = "lecture-generated"
	}
	cp := *lecture
	m.items[lecture.ID] = &cp
	return nil
}

func (m *mockLectureRepo) Update(ctx context.Context, lecture *models.Lecture) error {
	cp := *lecture
	m.items[lecture.ID] = &cp
	return nil
}

func (m *mockLectureRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func validLectureRequest() dto.CreateLectureRequest {
	return dto.CreateLectureRequest{
		Department:   "CS",
		Level:        "L2",
		GroupName:    "G1",
		SubjectName:  "Algorithms",
		StudentCount: 40,
		Mode:         "ftf",
		Day:          "Mon",
		Time:         "09.0",
	}
}

func TestNormalizeTime(t *testing.T) {
	cases := map[string]string{
		"9":     "9",
		"09":    "9",
		"9.0":   "9",
		"10.50": "10.5",
		" 8 ":   "8",
		"13.25": "13.25",
	}
	for raw, expected := range cases {
		got, err := NormalizeTime(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, expected, got, raw)
	}

	for _, raw := range []string{"", "nine", "9am", "NaN", "Inf"} {
		_, err := NormalizeTime(raw)
		requireAppError(t, err, appErrors.ErrInvalidTime)
	}
}

func TestLectureServiceCreateNormalizesFields(t *testing.T) {
	repo := &mockLectureRepo{}
	svc := NewLectureService(repo, nil, nil)

	lecture, err := svc.Create(context.Background(), validLectureRequest())
	require.NoError(t, err)
	assert.Equal(t, models.LectureModeFTF, lecture.Mode)
	assert.Equal(t, "9", lecture.Time)
	assert.Equal(t, 40, lecture.StudentCount)
	assert.Contains(t, repo.items, lecture.ID)
}

func TestLectureServiceCreateAllowsEmptyRoster(t *testing.T) {
	req := validLectureRequest()
	req.StudentCount = 0
	req.Mode = "VCR"

	lecture, err := NewLectureService(&mockLectureRepo{}, nil, nil).Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, lecture.StudentCount)
	assert.Equal(t, models.LectureModeVCR, lecture.Mode)
}

func TestLectureServiceCreateRejectsInvalidInput(t *testing.T) {
	svc := NewLectureService(&mockLectureRepo{}, nil, nil)

	badMode := validLectureRequest()
	badMode.Mode = "HYBRID"
	_, err := svc.Create(context.Background(), badMode)
	requireAppError(t, err, appErrors.ErrValidation)

	badTime := validLectureRequest()
	badTime.Time = "morning"
	_, err = svc.Create(context.Background(), badTime)
	requireAppError(t, err, appErrors.ErrInvalidTime)

	negative := validLectureRequest()
	negative.StudentCount = -1
	_, err = svc.Create(context.Background(), negative)
	requireAppError(t, err, appErrors.ErrValidation)

	missing := validLectureRequest()
	missing.Department = ""
	_, err = svc.Create(context.Background(), missing)
	requireAppError(t, err, appErrors.ErrValidation)
}

func TestLectureServiceUpdateAndDelete(t *testing.T) {
	repo := &mockLectureRepo{items: map[string]*models.Lecture{
		"l1": {ID: "l1", Department: "CS", Level: "L1", GroupName: "G1", SubjectName: "Intro", StudentCount: 10, Mode: models.LectureModeFTF, Day: "Mon", Time: "9"},
	}}
	svc := NewLectureService(repo, nil, nil)

	req := dto.UpdateLectureRequest(validLectureRequest())
	req.Time = "11.5"
	updated, err := svc.Update(context.Background(), "l1", req)
	require.NoError(t, err)
	assert.Equal(t, "11.5", updated.Time)
	assert.Equal(t, "Algorithms", repo.items["l1"].SubjectName)

	_, err = svc.Update(context.Background(), "missing", req)
	requireAppError(t, err, appErrors.ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), "l1"))
	assert.Empty(t, repo.items)
	requireAppError(t, svc.Delete(context.Background(), "l1"), appErrors.ErrNotFound)
}
