package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/stocktrace-api/internal/application/analytics"
	"github.com/jhoicas/stocktrace-api/internal/application/auth"
	"github.com/jhoicas/stocktrace-api/internal/application/dto"
	"github.com/jhoicas/stocktrace-api/internal/application/inventory"
	"github.com/jhoicas/stocktrace-api/internal/application/usecase"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stocktrace-api/internal/interfaces/http"
	"github.com/jhoicas/stocktrace-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type stubSlips struct{}

func (stubSlips) GenerateDocumentSlip(_ context.Context, _ inventory.DocumentSlip) ([]byte, error) {
	return []byte("%PDF-1.7 stub"), nil
}

type testServer struct {
	app   *fiber.App
	admin string
	staff string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	log := logger.Nop()

	users := usecase.NewUserUseCase(store.Users())
	ctx := context.Background()
	_, err := users.CreateUser(ctx, "admin@stocktrace.test", "Admin", "secreto-admin", entity.RoleAdmin)
	require.NoError(t, err)
	_, err = users.CreateUser(ctx, "bodega@stocktrace.test", "Bodega", "secreto-staff", entity.RoleStaff)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		ProductUC:    usecase.NewProductUseCase(store, repos),
		WarehouseUC:  usecase.NewWarehouseUseCase(store, repos),
		DocumentUC:   inventory.NewDocumentUseCase(store, repos, log),
		ProjectionUC: inventory.NewProjectionUseCase(repos.Products, repos.Movements, repos.Stock),
		PDFUC:        inventory.NewPDFUseCase(repos, stubSlips{}),
		DashboardUC:  appanalytics.NewDashboardUseCase(repos.Products, repos.Documents, repos.Movements, repos.Stock),
		JWTSecret:    testJWTSecret,
	})

	s := &testServer{app: app}
	s.admin = s.login(t, "admin@stocktrace.test", "secreto-admin")
	s.staff = s.login(t, "bodega@stocktrace.test", "secreto-staff")
	return s
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.LoginResponse](t, resp).Token
}

// catalog crea bodega, ubicación y producto; devuelve sus ids.
func (s *testServer) catalog(t *testing.T) (warehouseID, locationID, productID string) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/warehouses", s.admin, dto.CreateWarehouseRequest{Name: "Principal"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	warehouseID = decode[dto.WarehouseResponse](t, resp).ID

	resp = s.do(t, http.MethodPost, "/api/locations", s.admin, dto.CreateLocationRequest{WarehouseID: warehouseID, Name: "A-01"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	locationID = decode[dto.LocationResponse](t, resp).ID

	resp = s.do(t, http.MethodPost, "/api/products", s.admin, dto.CreateProductRequest{
		SKU: "TOR-001", Name: "Tornillo", MinStock: decimal.NewFromInt(5),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	productID = decode[dto.ProductResponse](t, resp).ID
	return warehouseID, locationID, productID
}

func receipt(warehouseID, locationID, productID string, n int64) dto.DocumentRequest {
	return dto.DocumentRequest{
		Date:        "2026-03-01",
		WarehouseID: warehouseID,
		Lines: []dto.DocumentLineRequest{
			{ProductID: productID, ToLocationID: locationID, Quantity: decimal.NewFromInt(n)},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujo_RecepcionConfirmadaActualizaStock(t *testing.T) {
	s := newTestServer(t)
	wid, lid, pid := s.catalog(t)

	// STAFF puede crear borradores
	resp := s.do(t, http.MethodPost, "/api/receipts", s.staff, receipt(wid, lid, pid, 10))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	doc := decode[dto.DocumentResponse](t, resp)
	assert.Equal(t, "DRAFT", doc.Status)
	assert.Equal(t, "RECEIPT", doc.Type)

	// el borrador no mueve stock
	resp = s.do(t, http.MethodGet, "/api/stock?warehouse_id="+wid, s.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.StockRowDTO](t, resp))

	// confirmar es solo ADMIN
	resp = s.do(t, http.MethodPost, "/api/receipts/"+doc.ID+"/confirm", s.staff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/receipts/"+doc.ID+"/confirm", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	confirmed := decode[dto.ConfirmResponse](t, resp)
	assert.Equal(t, "CONFIRMED", confirmed.Document.Status)
	assert.Equal(t, 1, confirmed.Movements)

	resp = s.do(t, http.MethodPost, "/api/receipts/"+doc.ID+"/confirm", s.admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_CONFIRMED", decode[dto.ErrorResponse](t, resp).Code)

	resp = s.do(t, http.MethodGet, "/api/stock?warehouse_id="+wid, s.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := decode[[]dto.StockRowDTO](t, resp)
	require.Len(t, rows, 1)
	assert.Equal(t, "A-01", rows[0].LocationName)
	assert.True(t, decimal.NewFromInt(10).Equal(rows[0].Quantity))

	resp = s.do(t, http.MethodGet, "/api/ledger?product_id="+pid, s.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	led := decode[dto.LedgerResponse](t, resp)
	require.Len(t, led.Entries, 1)
	assert.True(t, decimal.NewFromInt(10).Equal(led.FinalBalance))

	// un confirmado ya no se edita
	resp = s.do(t, http.MethodPut, "/api/receipts/"+doc.ID, s.staff, receipt(wid, lid, pid, 3))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestFlujo_TipoEquivocadoEs404(t *testing.T) {
	s := newTestServer(t)
	wid, lid, pid := s.catalog(t)

	resp := s.do(t, http.MethodPost, "/api/receipts", s.staff, receipt(wid, lid, pid, 10))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	doc := decode[dto.DocumentResponse](t, resp)

	resp = s.do(t, http.MethodGet, "/api/deliveries/"+doc.ID, s.staff, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/deliveries/"+doc.ID+"/confirm", s.admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestFlujo_PDF(t *testing.T) {
	s := newTestServer(t)
	wid, lid, pid := s.catalog(t)
	resp := s.do(t, http.MethodPost, "/api/receipts", s.staff, receipt(wid, lid, pid, 2))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	doc := decode[dto.DocumentResponse](t, resp)

	resp = s.do(t, http.MethodGet, "/api/receipts/"+doc.ID+"/pdf", s.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "receipt_"+doc.ID[:8]+".pdf")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación y errores
// ──────────────────────────────────────────────────────────────────────────────

func TestValidacion_CuerpoInvalidoDetallaCampos(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/receipts", s.staff, map[string]any{
		"date":  "01/03/2026",
		"lines": []any{},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Details, "date")
	assert.Contains(t, body.Details, "lines")
}

func TestValidacion_ReferenciaInexistente(t *testing.T) {
	s := newTestServer(t)
	wid, lid, _ := s.catalog(t)
	resp := s.do(t, http.MethodPost, "/api/receipts", s.staff,
		receipt(wid, lid, "00000000-0000-0000-0000-0000000000ff", 1))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestIDMalFormadoEs404(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/products/no-es-uuid", s.staff, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCatalogo_EscrituraSoloAdmin(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/warehouses", s.staff, dto.CreateWarehouseRequest{Name: "Sucursal"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/warehouses", s.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[dto.WarehouseListResponse](t, resp).Items)
}

func TestCatalogo_BorrarProductoConStockEsConflicto(t *testing.T) {
	s := newTestServer(t)
	wid, lid, pid := s.catalog(t)
	resp := s.do(t, http.MethodPost, "/api/receipts", s.staff, receipt(wid, lid, pid, 4))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	doc := decode[dto.DocumentResponse](t, resp)
	resp = s.do(t, http.MethodPost, "/api/receipts/"+doc.ID+"/confirm", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodDelete, "/api/products/"+pid, s.admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_LoginYMe(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@stocktrace.test", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/auth/me", s.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "bodega@stocktrace.test", me.Email)
	assert.Equal(t, entity.RoleStaff, me.Role)

	resp = s.do(t, http.MethodGet, "/api/stock", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decode[dto.ErrorResponse](t, resp).Code)
}

func TestDashboard_Resumen(t *testing.T) {
	s := newTestServer(t)
	wid, lid, pid := s.catalog(t)
	resp := s.do(t, http.MethodPost, "/api/receipts", s.staff, receipt(wid, lid, pid, 2))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/dashboard/summary", s.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[dto.DashboardSummaryDTO](t, resp)
	assert.Equal(t, 1, sum.TotalProducts)
	assert.Equal(t, 1, sum.PendingReceipts)
	assert.Equal(t, 1, sum.LowStockProducts, "sin stock y mínimo 5")

	resp = s.do(t, http.MethodGet, "/api/dashboard/risk-alerts", s.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.RiskAlertDTO](t, resp))
}
