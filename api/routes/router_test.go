package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/internal/allocation"
	"github.com/garagehub/garagehub-backend/internal/authn"
	"github.com/garagehub/garagehub-backend/internal/catalog"
	"github.com/garagehub/garagehub-backend/internal/credentials"
	"github.com/garagehub/garagehub-backend/internal/customers"
	"github.com/garagehub/garagehub-backend/internal/employees"
	"github.com/garagehub/garagehub-backend/internal/jobcards"
	"github.com/garagehub/garagehub-backend/internal/ledger"
	"github.com/garagehub/garagehub-backend/internal/usage"
	pkgauth "github.com/garagehub/garagehub-backend/pkg/auth"
	"github.com/garagehub/garagehub-backend/pkg/config"
	"github.com/garagehub/garagehub-backend/pkg/db"
	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
	"github.com/garagehub/garagehub-backend/pkg/logger"
)

var testJWT = config.JWTConfig{
	Secret:            "router-test-secret-router-test-secret",
	Issuer:            "garagehub-test",
	ExpirationMinutes: 15,
}

type routerHarness struct {
	handler http.Handler
	conn    *gorm.DB
	owner   *models.Employee
	token   string
}

func newRouterHarness(t *testing.T) *routerHarness {
	t.Helper()

	dsn := "file:routes_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Employee{}, &models.UserCredential{},
		&models.Part{}, &models.JobCard{}, &models.PartAllocation{},
		&models.StockLedgerEntry{}, &models.UsageCounter{},
		&models.Customer{}, &models.Vehicle{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "routes-test", Level: zerolog.Disabled, Output: io.Discard})

	employeesRepo := employees.NewRepository(conn)
	credentialsRepo := credentials.NewRepository(conn)
	catalogRepo := catalog.NewRepository(conn)
	ledgerRepo := ledger.NewRepository(conn)
	jobCardsRepo := jobcards.NewRepository(conn)
	allocationRepo := allocation.NewRepository(conn)
	usageTracker := usage.NewTracker(usage.NewRepository(conn))

	provisioner, err := employees.NewProvisioner(employees.ProvisionerParams{
		Privileged:  db.NewPrivilegedFromConn(conn),
		Employees:   employeesRepo,
		Credentials: credentialsRepo,
		Usage:       usageTracker,
		Logger:      logg,
	})
	if err != nil {
		t.Fatalf("provisioner: %v", err)
	}

	allocator, err := allocation.NewCoordinator(allocation.CoordinatorParams{
		JobCards: jobCardsRepo,
		Lines:    allocationRepo,
		Catalog:  catalogRepo,
		Ledger:   ledgerRepo,
		Usage:    usageTracker,
		Logger:   logg,
	})
	if err != nil {
		t.Fatalf("coordinator: %v", err)
	}

	cfg := &config.Config{
		App: config.AppConfig{Env: "dev", Port: "0"},
		JWT: testJWT,
	}
	handler := NewRouter(Deps{
		Config:      cfg,
		Logger:      logg,
		Auth:        authn.NewService(credentialsRepo, employeesRepo, cfg.JWT, cfg.Password),
		Provisioner: provisioner,
		Employees:   employees.NewService(employeesRepo),
		Catalog:     catalog.NewService(catalogRepo, usageTracker),
		Ledger:      ledgerRepo,
		JobCards:    jobcards.NewService(jobCardsRepo),
		Allocator:   allocator,
		Customers:   customers.NewService(customers.NewRepository(conn)),
		Usage:       usageTracker,
	})

	owner := &models.Employee{
		ID:         uuid.New(),
		GarageID:   uuid.New(),
		GarageName: "Riverside Garage",
		Handle:     "dana.owner@riversidegarage",
		FirstName:  "Dana",
		LastName:   "Owner",
		Role:       enums.EmployeeRoleOwner,
		Email:      "dana@example.com",
		Phone:      "5550009999",
		IsActive:   true,
	}
	if err := conn.Create(owner).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}

	token, err := pkgauth.MintAccessToken(testJWT, time.Now(), pkgauth.AccessTokenPayload{
		EmployeeID: owner.ID,
		GarageID:   owner.GarageID,
		Handle:     owner.Handle,
		Role:       owner.Role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	return &routerHarness{handler: handler, conn: conn, owner: owner, token: token}
}

func (h *routerHarness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+h.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v (%s)", err, rec.Body.String())
	}
}

func TestHealthLive(t *testing.T) {
	h := newRouterHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newRouterHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/parts", nil)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestProvisionEmployeeOverHTTP(t *testing.T) {
	h := newRouterHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/employees", map[string]any{
		"first_name": "José",
		"last_name":  "Álvaro",
		"role":       "mechanic",
		"email":      "jose@example.com",
		"phone":      "5551234567",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var summary struct {
		EmployeeID string `json:"employee_id"`
		Handle     string `json:"handle"`
	}
	decodeData(t, rec, &summary)
	if summary.Handle != "jose.alvaro@riversidegarage" {
		t.Fatalf("unexpected handle %q", summary.Handle)
	}

	var count int64
	h.conn.Model(&models.UserCredential{}).Where("handle = ?", summary.Handle).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 credential, got %d", count)
	}
}

func TestProvisionEmployeeForbiddenForMechanic(t *testing.T) {
	h := newRouterHarness(t)

	mechToken, err := pkgauth.MintAccessToken(testJWT, time.Now(), pkgauth.AccessTokenPayload{
		EmployeeID: uuid.New(),
		GarageID:   h.owner.GarageID,
		Handle:     "some.mechanic@riversidegarage",
		Role:       enums.EmployeeRoleMechanic,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	h.token = mechToken

	rec := h.do(t, http.MethodPost, "/api/v1/employees", map[string]any{
		"first_name": "Sam",
		"last_name":  "Reyes",
		"role":       "mechanic",
		"email":      "sam@example.com",
		"phone":      "5551230000",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAllocatePartsOverHTTP(t *testing.T) {
	h := newRouterHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/parts", map[string]any{
		"part_number": "BRK-1001",
		"name":        "Brake Pad Set",
		"category":    "Brakes",
		"unit_price":  "42.50",
		"on_hand_qty": 3,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create part: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var part struct {
		ID string `json:"ID"`
	}
	decodeData(t, rec, &part)
	if part.ID == "" {
		t.Fatalf("missing part id in %s", rec.Body.String())
	}

	rec = h.do(t, http.MethodPost, "/api/v1/job-cards", map[string]any{
		"complaints": []string{"grinding noise when braking"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("open job card: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var card struct {
		ID string `json:"ID"`
	}
	decodeData(t, rec, &card)

	// Requested quantity exceeds the three on hand, so the line clamps.
	rec = h.do(t, http.MethodPost, "/api/v1/job-cards/"+card.ID+"/parts", map[string]any{
		"lines": []map[string]any{
			{"part_id": part.ID, "qty": 5, "unit_price": "42.50", "source": "inventory"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("allocate: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Lines []struct {
			Outcome      string `json:"outcome"`
			RequestedQty int    `json:"requested_qty"`
			AppliedQty   int    `json:"applied_qty"`
		} `json:"lines"`
	}
	decodeData(t, rec, &result)
	if len(result.Lines) != 1 {
		t.Fatalf("expected 1 line result, got %d", len(result.Lines))
	}
	if result.Lines[0].Outcome != "clamped" || result.Lines[0].AppliedQty != 3 {
		t.Fatalf("unexpected line result %+v", result.Lines[0])
	}

	var stored models.Part
	if err := h.conn.First(&stored, "id = ?", part.ID).Error; err != nil {
		t.Fatalf("reload part: %v", err)
	}
	if stored.OnHandQty != 0 {
		t.Fatalf("expected on-hand 0, got %d", stored.OnHandQty)
	}
}
