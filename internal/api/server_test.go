package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/restadmin/internal/service/orders"
	"github.com/vladislavdragonenkov/restadmin/internal/service/reservations"
	"github.com/vladislavdragonenkov/restadmin/internal/storage/memory"
)

var testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	now := func() time.Time { return testNow }

	orderRepo := memory.NewOrderRepository()
	reservationRepo := memory.NewReservationRepository()

	return NewRouter(Dependencies{
		Orders:        orders.NewService(orderRepo, orders.Options{Now: now}),
		Reservations:  reservations.NewService(reservationRepo, reservations.Options{Now: now}),
		Customers:     memory.NewCustomerRepository(),
		Notifications: memory.NewNotificationRepository(),
		Menu:          memory.NewMenuRepository(),
		Now:           now,
	})
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateAndGetOrder(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_name": "Анна",
		"items": []gin.H{
			{"name": "Пицца Маргарита", "qty": 2, "price_minor": 85000},
			{"name": "Лимонад", "qty": 1, "price_minor": 25000},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody(t, rec)
	orderID, _ := created["ID"].(string)
	require.NotEmpty(t, orderID)
	assert.Equal(t, "pending", created["Status"])
	assert.Equal(t, float64(195000), created["TotalMinor"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/orders/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrderValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_name": "Анна",
		"items":         []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"items": []gin.H{{"name": "Суп", "qty": 1, "price_minor": 30000}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrdersFilterAndSort(t *testing.T) {
	router := newTestRouter(t)

	var ids []string
	for i, name := range []string{"Борис", "Анна", "Виктор"} {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/orders", gin.H{
			"customer_name": name,
			"items":         []gin.H{{"name": "Блюдо", "qty": 1, "price_minor": int64(10000 * (i + 1))}},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		ids = append(ids, decodeBody(t, rec)["ID"].(string))
	}

	rec := doRequest(t, router, http.MethodPatch, "/api/v1/orders/"+ids[0]+"/status", gin.H{"status": "preparing"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/api/v1/orders?status=preparing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["total"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/orders?search=анна", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["total"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/orders?sort=total&dir=desc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody(t, rec)["orders"].([]any)
	require.Len(t, list, 3)
	first := list[0].(map[string]any)
	assert.Equal(t, float64(30000), first["TotalMinor"])
}

func TestUpdateOrderStatusInvalidTransition(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_name": "Анна",
		"items":         []gin.H{{"name": "Суп", "qty": 1, "price_minor": 30000}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decodeBody(t, rec)["ID"].(string)

	rec = doRequest(t, router, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", gin.H{"status": "completed"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(t, router, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", gin.H{"status": "unknown-status"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReservationLifecycleAndConflict(t *testing.T) {
	router := newTestRouter(t)

	payload := gin.H{
		"customer_name":  "Анна",
		"customer_phone": "+79990000001",
		"date":           "2024-06-15",
		"time_slot":      "19:00",
		"party_size":     4,
		"table_number":   5,
	}
	rec := doRequest(t, router, http.MethodPost, "/api/v1/reservations", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reservationID := decodeBody(t, rec)["ID"].(string)

	conflict := gin.H{
		"customer_name": "Борис",
		"date":          "2024-06-15",
		"time_slot":     "19:00",
		"party_size":    2,
		"table_number":  5,
	}
	rec = doRequest(t, router, http.MethodPost, "/api/v1/reservations", conflict)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, http.MethodPatch, "/api/v1/reservations/"+reservationID+"/table", gin.H{"table_number": 7})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodPatch, "/api/v1/reservations/"+reservationID+"/status", gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/api/v1/reservations?bucket=upcoming", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["total"])
}

func TestCustomersEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/customers", gin.H{
		"name":  "Анна Иванова",
		"email": "anna@example.com",
		"phone": "+79990000001",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	customerID := decodeBody(t, rec)["ID"].(string)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/customers", gin.H{
		"name":  "Борис Петров",
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/customers/"+customerID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/customers?search=иванова", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["total"])
}

func TestNotificationScheduleFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/notifications", gin.H{
		"title":   "Счастливые часы",
		"message": "Скидка 20% до конца недели",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	notificationID := created["ID"].(string)
	assert.Equal(t, "draft", created["Status"])

	scheduledFor := testNow.Add(time.Hour).Format(time.RFC3339)
	rec = doRequest(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/notifications/%s/schedule", notificationID),
		gin.H{"scheduled_for": scheduledFor})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "scheduled", decodeBody(t, rec)["Status"])

	// повторное планирование уже не черновика
	rec = doRequest(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/notifications/%s/schedule", notificationID), gin.H{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateScheduledNotificationDirectly(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/notifications", gin.H{
		"title":         "Новое меню",
		"message":       "Попробуйте сезонные блюда",
		"audience":      "loyal",
		"scheduled_for": testNow.Add(2 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	assert.Equal(t, "scheduled", created["Status"])
	assert.Equal(t, "loyal", created["Audience"])
}

func TestMenuCRUD(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/menu", gin.H{
		"name":        "Пицца Маргарита",
		"description": "Томаты, моцарелла, базилик",
		"price_minor": 85000,
		"category":    "Пицца",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	itemID := created["ID"].(string)
	assert.Equal(t, true, created["Available"])

	available := false
	rec = doRequest(t, router, http.MethodPut, "/api/v1/menu/"+itemID, gin.H{
		"name":        "Пицца Маргарита",
		"description": "Томаты, моцарелла, базилик",
		"price_minor": 90000,
		"category":    "Пицца",
		"available":   available,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody(t, rec)
	assert.Equal(t, float64(90000), updated["PriceMinor"])
	assert.Equal(t, false, updated["Available"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/menu", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["total"])

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/menu/"+itemID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/menu/"+itemID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardUnavailableWithoutService(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/dashboard/stats", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
