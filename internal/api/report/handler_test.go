package report_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estoque/internal/api/report"
	"estoque/internal/api/web"
	"estoque/internal/domain"
	"estoque/internal/pkg/flash"
	"estoque/internal/pkg/logger"
)

type stubReport struct {
	rows []domain.BalanceRow
	err  error
}

func (s stubReport) BalanceReport(context.Context) ([]domain.BalanceRow, error) { return s.rows, s.err }

func newHandler(t *testing.T, svc report.ReportService) *report.Handler {
	t.Helper()
	rd, err := web.NewRenderer(flash.NewMessenger("segredo", time.Minute, false), logger.NewNopLogger())
	require.NoError(t, err)
	return report.NewHandler(svc, rd, logger.NewNopLogger())
}

var widgetRows = []domain.BalanceRow{
	{ProductID: "p1", ProductName: "Widget", LocationID: "l2", LocationName: "Store", Balance: 30},
	{ProductID: "p1", ProductName: "Widget", LocationID: "l1", LocationName: "Warehouse", Balance: -70},
}

func TestReportHandler_RendersRowsInOrder(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(t, stubReport{rows: widgetRows}).ReportHandler(rec, httptest.NewRequest(http.MethodGet, "/report", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Less(t, strings.Index(body, "Store"), strings.Index(body, "Warehouse"))
	assert.Contains(t, body, `class="num negative"`)
	assert.Contains(t, body, "-70")
}

func TestReportHandler_Failure(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(t, stubReport{err: errors.New("db fora")}).ReportHandler(rec, httptest.NewRequest(http.MethodGet, "/report", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestReportJSONHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(t, stubReport{rows: widgetRows[:1]}).ReportJSONHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/report", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"product_id":"p1","product":"Widget","location_id":"l2","location":"Store","balance":30}]`, rec.Body.String())
}
