package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skinsight/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportHandler_ExportExcel(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `analysis_records` WHERE owner_id = \\?").
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow("rec-2", 1, "Alice", "img", []byte(`{"type":"Melanoma","confidence":87.5,"riskLevel":"High"}`), time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)).
			AddRow("rec-1", 1, "Alice", "img", []byte(`{"label":"Dermatofibroma","confidence":"72.1%","risk_level":"Low"}`), time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)))

	router := gin.New()
	router.Use(setUserMiddleware(1, "Alice"))
	router.GET("/api/analysis/export", NewExportHandler(service.NewAnalysisService(db), nil).ExportExcel)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analysis/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"ID", "Condition", "Confidence", "Risk Level", "Created At"}, rows[0])
	assert.Equal(t, []string{"rec-2", "Melanoma", "87.50%", "High", "2024-05-02 09:30:00"}, rows[1])
	assert.Equal(t, []string{"rec-1", "Dermatofibroma", "72.10%", "Low", "2024-05-01 09:30:00"}, rows[2])
	assert.Equal(t, "Total: 2", rows[3][0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ExportExcel_DBError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `analysis_records`").WillReturnError(errors.New("connection lost"))

	router := gin.New()
	router.Use(setUserMiddleware(1, "Alice"))
	router.GET("/api/analysis/export", NewExportHandler(service.NewAnalysisService(db), nil).ExportExcel)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analysis/export", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSummarize(t *testing.T) {
	cond, conf, risk := summarize([]byte(`{"condition":"Melanoma","confidence":"87.5"}`))
	assert.Equal(t, "Melanoma", cond)
	assert.Equal(t, "87.50%", conf)
	assert.Empty(t, risk)

	cond, conf, risk = summarize([]byte(`not json`))
	assert.Empty(t, cond)
	assert.Empty(t, conf)
	assert.Empty(t, risk)
}
