package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quoteai/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomerHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(mock sqlmock.Sqlmock)
		expectedStatus int
		checkBody      func(t *testing.T, body []byte)
	}{
		{
			name: "creates a customer",
			body: `{"name":"Amit Levi","email":"amit@example.com","company":"Levi Ltd"}`,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO customers").
					WithArgs(sqlmock.AnyArg(), "org-1", "Amit Levi", "amit@example.com", "Levi Ltd").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body []byte) {
				var customer models.Customer
				require.NoError(t, json.Unmarshal(body, &customer))
				assert.NotEmpty(t, customer.ID)
				assert.Equal(t, "org-1", customer.OrganizationID)
				assert.Equal(t, "Amit Levi", customer.Name)
			},
		},
		{
			name: "company is optional",
			body: `{"name":"Amit Levi","email":"amit@example.com"}`,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO customers").
					WithArgs(sqlmock.AnyArg(), "org-1", "Amit Levi", "amit@example.com", nil).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing name rejected",
			body:           `{"email":"amit@example.com"}`,
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid email rejected",
			body:           `{"name":"Amit Levi","email":"not-an-email"}`,
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email reads as bad request",
			body: `{"name":"Amit Levi","email":"amit@example.com"}`,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO customers").
					WillReturnError(assert.AnError)
			},
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
			c := e.NewContext(authedJSONRequest(http.MethodPost, "/api/customers", tt.body), rec)
			c.Set("organization_id", "org-1")

			handler := CreateCustomerHandler(testDB)
			require.NoError(t, handler(c))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, rec.Body.Bytes())
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListCustomersHandler(t *testing.T) {
	t.Run("returns customers", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = mockDB.Close() }()

		testDB := sqlx.NewDb(mockDB, "sqlmock")
		mock.ExpectQuery("FROM customers").WithArgs("org-1").WillReturnRows(customerRows("org-1"))

		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/customers", nil), rec)
		c.Set("organization_id", "org-1")

		handler := ListCustomersHandler(testDB)
		require.NoError(t, handler(c))

		assert.Equal(t, http.StatusOK, rec.Code)

		var customers []models.Customer
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
		require.Len(t, customers, 1)
		assert.Equal(t, "amit@example.com", customers[0].Email)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = mockDB.Close() }()

		testDB := sqlx.NewDb(mockDB, "sqlmock")
		mock.ExpectQuery("FROM customers").
			WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name", "email", "company", "created_at"}))

		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/customers", nil), rec)
		c.Set("organization_id", "org-1")

		handler := ListCustomersHandler(testDB)
		require.NoError(t, handler(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
