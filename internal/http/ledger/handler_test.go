package ledger_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/previsao/internal/calendar"
	"github.com/MrJamesThe3rd/previsao/internal/events"
	ledgerHandler "github.com/MrJamesThe3rd/previsao/internal/http/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/ledger/store"
	"github.com/MrJamesThe3rd/previsao/internal/transaction"
)

type fixture struct {
	router http.Handler
	svc    *ledger.Service
	repo   *store.File
	events []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	start := calendar.MustParseDate("2025-01-15")
	seed := &ledger.Settings{
		Transactions: []*transaction.Transaction{{
			ID: "t1", Description: "Aluguel", Amount: 150000, Date: calendar.MustParseDate("2025-11-20"),
			Type: transaction.TypeExpense, Status: transaction.StatusPending,
		}},
		Goals: []*ledger.Goal{{
			ID: "g1", Name: "Carro", Type: ledger.GoalDebt, MonthlyInstallment: 50000,
			StartDate: &start, TotalInstallments: 12, ShowInPending: true,
		}},
	}

	f := &fixture{repo: store.NewFile(filepath.Join(t.TempDir(), "settings.json"))}
	require.NoError(t, f.repo.Save(context.Background(), seed))

	bus := events.NewBus()
	bus.Subscribe(func(e events.Event) { f.events = append(f.events, e) })

	f.svc = ledger.NewService(f.repo, bus)
	require.NoError(t, f.svc.Load(context.Background()))

	r := chi.NewRouter()
	ledgerHandler.NewHandler(f.svc).Routes(r)
	f.router = r

	return f
}

func (f *fixture) do(method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	return rr
}

func TestHandler_Mutations(t *testing.T) {
	type testCase struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		check      func(t *testing.T, s *ledger.Settings)
	}

	tests := []testCase{
		{
			name: "SetPaymentMonth", method: http.MethodPatch, path: "/transactions/t1/payment-month",
			body: `{"payment_month":"2025-12"}`, wantStatus: http.StatusNoContent,
			check: func(t *testing.T, s *ledger.Settings) {
				assert.Equal(t, "2025-12", s.Transactions[0].PaymentMonth)
			},
		},
		{
			name: "SetPaymentMonthUnknown", method: http.MethodPatch, path: "/transactions/nope/payment-month",
			body: `{"payment_month":"2025-12"}`, wantStatus: http.StatusNotFound,
		},
		{
			name: "SetPaymentMonthInvalid", method: http.MethodPatch, path: "/transactions/t1/payment-month",
			body: `{"payment_month":"12/2025"}`, wantStatus: http.StatusBadRequest,
		},
		{
			name: "MarkPaid", method: http.MethodPatch, path: "/transactions/t1/status",
			body: `{"status":"paid"}`, wantStatus: http.StatusNoContent,
			check: func(t *testing.T, s *ledger.Settings) {
				assert.Equal(t, transaction.StatusPaid, s.Transactions[0].Status)
			},
		},
		{
			name: "InvalidStatus", method: http.MethodPatch, path: "/transactions/t1/status",
			body: `{"status":"done"}`, wantStatus: http.StatusBadRequest,
		},
		{
			name: "SkipGoal", method: http.MethodPost, path: "/goals/g1/skip",
			body: `{"month":"2025-11"}`, wantStatus: http.StatusNoContent,
			check: func(t *testing.T, s *ledger.Settings) {
				assert.Equal(t, []string{"2025-11"}, s.Goals[0].SkippedMonths)
			},
		},
		{
			name: "SkipUnknownGoal", method: http.MethodPost, path: "/goals/g9/skip",
			body: `{"month":"2025-11"}`, wantStatus: http.StatusNotFound,
		},
		{
			name: "SkipFund", method: http.MethodPost, path: "/fund/skip",
			body: `{"month":"2025-11"}`, wantStatus: http.StatusNoContent,
			check: func(t *testing.T, s *ledger.Settings) {
				assert.Equal(t, []string{"2025-11"}, s.EmergencyFund.SkippedMonths)
			},
		},
		{
			name: "MalformedBody", method: http.MethodPost, path: "/fund/skip",
			body: `{`, wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rr := f.do(tt.method, tt.path, "application/json", []byte(tt.body))
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			if tt.check == nil {
				assert.Empty(t, f.events)
				return
			}

			tt.check(t, f.svc.Snapshot())

			persisted, err := f.repo.Load(context.Background())
			require.NoError(t, err)
			tt.check(t, persisted)

			require.Len(t, f.events, 1)
			assert.Equal(t, events.DataChanged, f.events[0].Kind)
		})
	}
}

func TestHandler_Export(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodGet, "/settings", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `"name":"Carro"`)
	assert.Contains(t, rr.Body.String(), `"amount":"1500"`)
}

const backup = `{"transactions":[{"id":"s1","description":"Salário","amount":"5000.00","date":"2025-10-05","type":"income","status":"paid","isRecurring":true}]}`

const backupWithVirtual = `{"transactions":[
	{"id":"s1","description":"Salário","amount":"5000.00","date":"2025-10-05","type":"income","status":"paid","isRecurring":true},
	{"id":"vfund_emergency","description":"Contribuição para Fundo de Emergência","amount":"100.00","date":"2025-11-01","type":"expense","status":"pending","isVirtual":true,"virtualType":"fund"}
]}`

func TestHandler_Import(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().String(backup)
	require.NoError(t, err)

	multipartBody := func(t *testing.T) (string, []byte) {
		var buf bytes.Buffer

		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "backup.json")
		require.NoError(t, err)

		_, err = fw.Write([]byte(backup))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		return mw.FormDataContentType(), buf.Bytes()
	}

	type testCase struct {
		name       string
		body       func(t *testing.T) (string, []byte)
		wantStatus int
	}

	tests := []testCase{
		{
			name:       "JSONBody",
			body:       func(*testing.T) (string, []byte) { return "application/json", []byte(backup) },
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "LatinBody",
			body:       func(*testing.T) (string, []byte) { return "application/octet-stream", []byte(latin1) },
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "Multipart",
			body:       multipartBody,
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "VirtualEntriesDropped",
			body:       func(*testing.T) (string, []byte) { return "application/json", []byte(backupWithVirtual) },
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "MultipartWithoutFile",
			body:       func(*testing.T) (string, []byte) { return "multipart/form-data; boundary=x", []byte("--x--\r\n") },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Malformed",
			body:       func(*testing.T) (string, []byte) { return "application/json", []byte(`{"transactions":`) },
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			contentType, body := tt.body(t)
			rr := f.do(http.MethodPost, "/settings/import", contentType, body)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			snap := f.svc.Snapshot()

			if tt.wantStatus != http.StatusNoContent {
				assert.Equal(t, "Aluguel", snap.Transactions[0].Description)
				return
			}

			require.Len(t, snap.Transactions, 1)
			assert.Equal(t, "Salário", snap.Transactions[0].Description)
			assert.Equal(t, int64(500000), snap.Transactions[0].Amount)
			assert.Empty(t, snap.Goals)
			assert.True(t, strings.HasPrefix(snap.Transactions[0].Date.String(), "2025-10"))

			persisted, err := f.repo.Load(context.Background())
			require.NoError(t, err)
			require.Len(t, persisted.Transactions, 1)
			assert.Equal(t, "s1", persisted.Transactions[0].ID)
		})
	}
}
