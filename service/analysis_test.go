package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

var recordColumns = []string{"id", "owner_id", "owner_name", "image", "result", "created_at"}

func TestAnalysisService_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewAnalysisService(db)

	result := `{"type":"Melanoma","confidence":87.5}`
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `analysis_records`").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "Alice", "data:image/jpeg;base64,AAAA", result, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := svc.Create(context.Background(), 1, "Alice", "data:image/jpeg;base64,AAAA", json.RawMessage(result))
	require.NoError(t, err)
	assert.Len(t, id, 36)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisService_Create_Validation(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewAnalysisService(db)

	cases := map[string]struct {
		image  string
		result string
	}{
		"missing image":  {"", `{"type":"Melanoma"}`},
		"missing result": {"img", ""},
		"null result":    {"img", "null"},
		"invalid json":   {"img", "{not json"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, "Alice", tc.image, json.RawMessage(tc.result))
			assert.ErrorIs(t, err, ErrInvalidAnalysis)
		})
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisService_Create_DBError(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewAnalysisService(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `analysis_records`").WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 1, "Alice", "img", json.RawMessage(`{}`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidAnalysis)
}

func TestAnalysisService_ListByOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewAnalysisService(db)

	newer := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	older := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `analysis_records` WHERE owner_id = \\? ORDER BY created_at DESC").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow("b", 7, "Bob", "img-b", []byte(`{"type":"Dermatofibroma"}`), newer).
			AddRow("a", 7, "Bob", "img-a", []byte(`{"type":"Melanoma"}`), older))

	list, err := svc.ListByOwner(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisService_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewAnalysisService(db)

	mock.ExpectQuery("SELECT \\* FROM `analysis_records` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow("rec-1", 1, "Alice", "img", []byte(`{"type":"Melanoma"}`), time.Now()))

	rec, err := svc.GetByID(context.Background(), "rec-1", 1)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", rec.ID)
	assert.Equal(t, uint(1), rec.OwnerID)
}

func TestAnalysisService_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewAnalysisService(db)

	mock.ExpectQuery("SELECT \\* FROM `analysis_records`").
		WillReturnRows(sqlmock.NewRows(recordColumns))

	_, err := svc.GetByID(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}

func TestAnalysisService_GetByID_OtherOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewAnalysisService(db)

	mock.ExpectQuery("SELECT \\* FROM `analysis_records`").
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow("rec-1", 2, "Mallory", "img", []byte(`{}`), time.Now()))

	rec, err := svc.GetByID(context.Background(), "rec-1", 1)
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrAnalysisForbidden)
	assert.NotErrorIs(t, err, ErrAnalysisNotFound)
}

func TestAnalysisService_RoundTrip(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewAnalysisService(db)

	image := "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="
	result := `{"type":"Basal Cell Carcinoma","confidence":91.23,"description":"slow growing","recommendations":["see a dermatologist"]}`

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `analysis_records`").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "Alice", image, result, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := svc.Create(context.Background(), 1, "Alice", image, json.RawMessage(result))
	require.NoError(t, err)

	mock.ExpectQuery("SELECT \\* FROM `analysis_records` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow(id, 1, "Alice", image, []byte(result), time.Now()))

	rec, err := svc.GetByID(context.Background(), id, 1)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, image, rec.Image)
	assert.JSONEq(t, result, string(rec.Result))
	require.NoError(t, mock.ExpectationsWereMet())
}
