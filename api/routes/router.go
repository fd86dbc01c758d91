package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garagehub/garagehub-backend/api/controllers"
	"github.com/garagehub/garagehub-backend/api/middleware"
	"github.com/garagehub/garagehub-backend/internal/allocation"
	"github.com/garagehub/garagehub-backend/internal/authn"
	"github.com/garagehub/garagehub-backend/internal/catalog"
	"github.com/garagehub/garagehub-backend/internal/customers"
	"github.com/garagehub/garagehub-backend/internal/employees"
	"github.com/garagehub/garagehub-backend/internal/jobcards"
	"github.com/garagehub/garagehub-backend/internal/ledger"
	"github.com/garagehub/garagehub-backend/internal/usage"
	"github.com/garagehub/garagehub-backend/pkg/config"
	"github.com/garagehub/garagehub-backend/pkg/db"
	"github.com/garagehub/garagehub-backend/pkg/enums"
	"github.com/garagehub/garagehub-backend/pkg/logger"
	pkgredis "github.com/garagehub/garagehub-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *db.Client
	Idempotency pkgredis.IdempotencyStore
	Registry    prometheus.Gatherer

	Auth        *authn.Service
	Provisioner employees.Provisioner
	Employees   *employees.Service
	Catalog     *catalog.Service
	Ledger      *ledger.Repository
	JobCards    *jobcards.Service
	Allocator   allocation.Coordinator
	Customers   *customers.Service
	Usage       *usage.Tracker
}

// NewRouter builds the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/set-password", controllers.AuthSetPassword(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		if deps.Idempotency != nil {
			r.Use(middleware.Idempotency(deps.Idempotency, logg))
		}

		r.Route("/employees", func(r chi.Router) {
			r.With(middleware.RequireRoles(logg, enums.EmployeeRoleOwner, enums.EmployeeRoleManager)).
				Post("/", controllers.EmployeesCreate(deps.Provisioner, logg))
			r.Get("/", controllers.EmployeesList(deps.Employees, logg))
			r.Get("/{employeeID}", controllers.EmployeesGet(deps.Employees, logg))
			r.With(middleware.RequireRoles(logg, enums.EmployeeRoleOwner, enums.EmployeeRoleManager)).
				Patch("/{employeeID}/active", controllers.EmployeesSetActive(deps.Employees, logg))
		})

		r.Route("/parts", func(r chi.Router) {
			r.Post("/", controllers.PartsCreate(deps.Catalog, logg))
			r.Get("/", controllers.PartsList(deps.Catalog, logg))
			r.Get("/{partID}", controllers.PartsGet(deps.Catalog, logg))
			r.Get("/{partID}/ledger", controllers.PartsLedger(deps.Catalog, deps.Ledger, logg))
		})

		r.Route("/job-cards", func(r chi.Router) {
			r.Post("/", controllers.JobCardsCreate(deps.JobCards, logg))
			r.Get("/", controllers.JobCardsList(deps.JobCards, logg))
			r.Get("/{jobCardID}", controllers.JobCardsGet(deps.JobCards, logg))
			r.Patch("/{jobCardID}/status", controllers.JobCardsTransition(deps.JobCards, logg))
			r.Post("/{jobCardID}/parts", controllers.JobCardsAllocateParts(deps.JobCards, deps.Allocator, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CustomersCreate(deps.Customers, logg))
			r.Get("/", controllers.CustomersList(deps.Customers, logg))
			r.Get("/{customerID}", controllers.CustomersGet(deps.Customers, logg))
			r.Post("/{customerID}/vehicles", controllers.VehiclesCreate(deps.Customers, logg))
			r.Get("/{customerID}/vehicles", controllers.VehiclesList(deps.Customers, logg))
		})

		r.Get("/usage/{field}", controllers.UsageTop(deps.Usage, logg))
	})

	return r
}
