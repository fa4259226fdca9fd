package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quoteai/internal/cache"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateEmailSettingsHandler(t *testing.T) {
	settingsRow := func(fromEmail string) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "organization_id", "from_name", "from_email", "reply_to", "signature"}).
			AddRow("settings-1", "org-1", nil, fromEmail, nil, nil)
	}

	tests := []struct {
		name           string
		body           string
		setupMock      func(mock sqlmock.Sqlmock)
		setupCache     func(lookupCache *cache.Cache)
		expectedStatus int
		checkCache     func(t *testing.T, lookupCache *cache.Cache)
	}{
		{
			name: "creates the sending identity",
			body: `{"from_name":"Acme Plumbing","from_email":"quotes@acme.com","signature":"Thanks,\nAcme"}`,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM email_settings").WillReturnError(sql.ErrNoRows)
				mock.ExpectExec("INSERT INTO email_settings").
					WithArgs(sqlmock.AnyArg(), "org-1", "Acme Plumbing", "quotes@acme.com", nil, "Thanks,\nAcme").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "update drops stale address resolutions",
			body: `{"from_email":"new@acme.com"}`,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM email_settings").WillReturnRows(settingsRow("old@acme.com"))
				mock.ExpectExec("INSERT INTO email_settings").
					WithArgs(sqlmock.AnyArg(), "org-1", nil, "new@acme.com", nil, nil).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			setupCache: func(lookupCache *cache.Cache) {
				lookupCache.Set(orgAddressCacheKey+"old@acme.com", "org-1", time.Minute)
				lookupCache.Set(orgAddressCacheKey+"new@acme.com", "org-other", time.Minute)
			},
			expectedStatus: http.StatusOK,
			checkCache: func(t *testing.T, lookupCache *cache.Cache) {
				_, found := lookupCache.Get(orgAddressCacheKey + "old@acme.com")
				assert.False(t, found)
				_, found = lookupCache.Get(orgAddressCacheKey + "new@acme.com")
				assert.False(t, found)
			},
		},
		{
			name:           "invalid from email rejected",
			body:           `{"from_email":"not-an-email"}`,
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid reply-to rejected",
			body:           `{"reply_to":"nope"}`,
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "upsert failure",
			body: `{"from_email":"quotes@acme.com"}`,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM email_settings").WillReturnError(sql.ErrNoRows)
				mock.ExpectExec("INSERT INTO email_settings").WillReturnError(assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = mockDB.Close() }()

			testDB := sqlx.NewDb(mockDB, "sqlmock")
			tt.setupMock(mock)

			lookupCache := cache.New()
			if tt.setupCache != nil {
				tt.setupCache(lookupCache)
			}

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(authedJSONRequest(http.MethodPut, "/api/settings/email", tt.body), rec)
			c.Set("organization_id", "org-1")

			handler := UpdateEmailSettingsHandler(testDB, lookupCache)
			require.NoError(t, handler(c))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkCache != nil {
				tt.checkCache(t, lookupCache)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetEmailSettingsHandler_NotConfigured(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	testDB := sqlx.NewDb(mockDB, "sqlmock")
	mock.ExpectQuery("FROM email_settings").WillReturnError(sql.ErrNoRows)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/settings/email", nil), rec)
	c.Set("organization_id", "org-1")

	handler := GetEmailSettingsHandler(testDB)
	require.NoError(t, handler(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrganizationHandler_RequiresName(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	testDB := sqlx.NewDb(mockDB, "sqlmock")

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(authedJSONRequest(http.MethodPut, "/api/settings/organization", `{"name":"  "}`), rec)
	c.Set("organization_id", "org-1")

	handler := UpdateOrganizationHandler(testDB)
	require.NoError(t, handler(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
