package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quoteai/internal/cache"
	"quoteai/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateServiceHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(mock sqlmock.Sqlmock)
		expectedStatus int
		checkBody      func(t *testing.T, body []byte)
	}{
		{
			name: "creates a service",
			body: `{"name":"Demolition","description":"Tear-down work","base_price":400}`,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO services").
					WithArgs(sqlmock.AnyArg(), "org-1", "Demolition", "Tear-down work", 400.0).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body []byte) {
				var service models.Service
				require.NoError(t, json.Unmarshal(body, &service))
				assert.NotEmpty(t, service.ID)
				assert.Equal(t, "org-1", service.OrganizationID)
				assert.Equal(t, "Demolition", service.Name)
			},
		},
		{
			name:           "missing name rejected",
			body:           `{"base_price":400}`,
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative base price rejected",
			body:           `{"name":"Demolition","base_price":-1}`,
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = mockDB.Close() }()

			testDB := sqlx.NewDb(mockDB, "sqlmock")
			tt.setupMock(mock)

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(authedJSONRequest(http.MethodPost, "/api/services", tt.body), rec)
			c.Set("organization_id", "org-1")

			handler := CreateServiceHandler(testDB, cache.New())
			require.NoError(t, handler(c))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, rec.Body.Bytes())
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateServiceHandler_InvalidatesCatalogCache(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	testDB := sqlx.NewDb(mockDB, "sqlmock")
	mock.ExpectExec("INSERT INTO services").WillReturnResult(sqlmock.NewResult(0, 1))

	// A cached catalog would hide the new service from quote generation
	lookupCache := cache.New()
	lookupCache.Set(catalogCacheKey+"org-1", catalogServices(), time.Minute)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(authedJSONRequest(http.MethodPost, "/api/services", `{"name":"Painting","base_price":250}`), rec)
	c.Set("organization_id", "org-1")

	handler := CreateServiceHandler(testDB, lookupCache)
	require.NoError(t, handler(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	_, found := lookupCache.Get(catalogCacheKey + "org-1")
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListServicesHandler(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	testDB := sqlx.NewDb(mockDB, "sqlmock")
	mock.ExpectQuery("FROM services").WithArgs("org-1").WillReturnRows(serviceRows())

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/services", nil), rec)
	c.Set("organization_id", "org-1")

	handler := ListServicesHandler(testDB)
	require.NoError(t, handler(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var services []models.Service
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &services))
	require.Len(t, services, 2)
	assert.Equal(t, "Demolition", services[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}
