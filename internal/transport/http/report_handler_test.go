package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trialcli/internal/errors"
	"trialcli/pkg/contracts/domain"
)

type fakeService struct {
	summary *domain.SummaryData
	err     error

	participantGrid domain.Grid
	eventGrid       domain.Grid
}

func (f *fakeService) Generate(ctx context.Context, participantGrid, eventGrid domain.Grid) (*domain.SummaryData, error) {
	f.participantGrid = participantGrid
	f.eventGrid = eventGrid
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func multipartBody(t *testing.T, parts map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for field, content := range parts {
		fw, err := mw.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func newTestHandler(svc *fakeService) *ReportHandler {
	return NewReportHandler(svc, nil, NewMetrics(prometheus.NewRegistry()), 1<<20)
}

func TestGenerateReport(t *testing.T) {
	svc := &fakeService{summary: &domain.SummaryData{
		Totals:         domain.SiteSummary{SiteName: "Total Enrolled", TotalDiarrhealEvents: 4},
		UnmappedEvents: 1,
	}}
	handler := newTestHandler(svc)

	body, contentType := multipartBody(t, map[string]string{
		"participants": "Site,ID,Visit,Date\nMirpur,2001,V1,2024-01-10\n",
		"events":       "ID,Date,Result\n2001,2024-02-20,Positive\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/reports", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.GenerateReport(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    domain.SummaryData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 4, resp.Data.Totals.TotalDiarrhealEvents)

	// The handler decodes uploads before handing grids to the service.
	require.NotEmpty(t, svc.participantGrid)
	assert.Equal(t, "Site", svc.participantGrid[0][0])
	require.NotEmpty(t, svc.eventGrid)
	assert.Equal(t, "ID", svc.eventGrid[0][0])
}

func TestGenerateReportMissingPart(t *testing.T) {
	handler := newTestHandler(&fakeService{summary: &domain.SummaryData{}})

	body, contentType := multipartBody(t, map[string]string{
		"participants": "Site,ID,Visit,Date\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/reports", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.GenerateReport(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "MISSING_PARAMETER", resp.Error.ErrorCode)
}

func TestGenerateReportNotMultipart(t *testing.T) {
	handler := newTestHandler(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/reports", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.GenerateReport(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateReportEngineError(t *testing.T) {
	svc := &fakeService{err: apperrors.NewMissingHeaderError("events", []string{"ID", "Date", "Result"})}
	handler := newTestHandler(svc)

	body, contentType := multipartBody(t, map[string]string{
		"participants": "Site,ID,Visit,Date\n",
		"events":       "bogus\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/reports", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.GenerateReport(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "MISSING_HEADER", resp.Error.ErrorCode)
}

func TestHealthCheck(t *testing.T) {
	handler := NewHealthHandler("1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.Check(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}
