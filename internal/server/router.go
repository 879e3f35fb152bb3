package server

import (
	"log"
	"net/http"
	"time"

	"salescrm/internal/auth"
	"salescrm/internal/catalog"
	"salescrm/internal/customers"
	"salescrm/internal/dashboard"
	"salescrm/internal/gate"
	"salescrm/internal/handlers"
	"salescrm/internal/httpx"
	"salescrm/internal/leads"
	"salescrm/internal/lifecycle"
	"salescrm/internal/policy"
	"salescrm/internal/pricing"
	"salescrm/internal/report"
	"salescrm/internal/users"

	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	ag := policy.NewAuthGate(db, 5*time.Minute)

	catalogSvc := catalog.NewService(db)
	pricingEngine := pricing.NewEngine(catalogSvc)
	engine := lifecycle.NewEngine(db, pricingEngine)
	leadsSvc := leads.NewService(db)
	usersSvc := users.NewService(db)
	customersSvc := customers.NewService(db)
	dashboardSvc := dashboard.NewService(db)
	reportsSvc := report.NewService(db)

	// RequireAuth rejects sessions whose user has since been trashed.
	auth.SetUserVerifier(usersSvc.Exists)

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight DB check (SELECT 1) – detailed errors stay out of the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, werr := w.Write([]byte(`{"status":"degraded"}`)); werr != nil {
				_ = werr
			}
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	ah := handlers.NewAuthHandler(usersSvc)
	mux.Handle("/register", post(http.HandlerFunc(ah.Register)))
	mux.Handle("/login", post(http.HandlerFunc(ah.Login)))
	mux.Handle("/logout", auth.Middleware(post(http.HandlerFunc(ah.Logout))))
	mux.Handle("/me", auth.Middleware(auth.RequireAuth(http.HandlerFunc(ah.Me))))

	// protect wires the standard middleware chain: attach user, require it,
	// then check the role permission before the handler runs.
	protect := func(resource string, action gate.Action, h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(ag.RequirePermission(resource, action)(h)))
	}

	// Dashboard
	dh := handlers.NewDashboardHandler(dashboardSvc, ag)
	mux.Handle("/dashboard", auth.Middleware(auth.RequireAuth(http.HandlerFunc(dh.Show))))

	// Lead endpoints
	lh := handlers.NewLeadHandler(leadsSvc, ag)
	mux.Handle("/leads", auth.Middleware(auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ag.RequirePermission(policy.ResourceLead, gate.ActionList)(http.HandlerFunc(lh.List)).ServeHTTP(w, r)
		case http.MethodPost:
			ag.RequirePermission(policy.ResourceLead, gate.ActionCreate)(http.HandlerFunc(lh.Create)).ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))))
	mux.Handle("/leads/show", protect(policy.ResourceLead, gate.ActionView, lh.Show))
	mux.Handle("/leads/update", protect(policy.ResourceLead, gate.ActionUpdate, lh.Update))
	mux.Handle("/leads/delete", protect(policy.ResourceLead, gate.ActionDelete, lh.Delete))
	mux.Handle("/leads/available", protect(policy.ResourceLead, gate.ActionList, lh.Available))

	// Project endpoints
	prh := handlers.NewProjectHandler(db, engine, ag)
	mux.Handle("/projects", auth.Middleware(auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ag.RequirePermission(policy.ResourceProject, gate.ActionList)(http.HandlerFunc(prh.List)).ServeHTTP(w, r)
		case http.MethodPost:
			ag.RequirePermission(policy.ResourceProject, gate.ActionCreate)(http.HandlerFunc(prh.Create)).ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))))
	mux.Handle("/projects/show", protect(policy.ResourceProject, gate.ActionView, prh.Show))
	mux.Handle("/projects/update", protect(policy.ResourceProject, gate.ActionUpdate, prh.Update))
	mux.Handle("/projects/delete", protect(policy.ResourceProject, gate.ActionDelete, prh.Delete))

	// Product endpoints (manager only via role permissions)
	ph := handlers.NewProductHandler(catalogSvc)
	mux.Handle("/products", auth.Middleware(auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ag.RequirePermission(policy.ResourceProduct, gate.ActionList)(http.HandlerFunc(ph.List)).ServeHTTP(w, r)
		case http.MethodPost:
			ag.RequirePermission(policy.ResourceProduct, gate.ActionCreate)(http.HandlerFunc(ph.Create)).ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))))
	mux.Handle("/products/update", protect(policy.ResourceProduct, gate.ActionUpdate, ph.Update))
	mux.Handle("/products/delete", protect(policy.ResourceProduct, gate.ActionDelete, ph.Delete))
	mux.Handle("/products/trashed", protect(policy.ResourceProduct, gate.ActionList, ph.Trashed))
	mux.Handle("/products/restore", protect(policy.ResourceProduct, gate.ActionRestore, ph.Restore))
	mux.Handle("/products/purge", protect(policy.ResourceProduct, gate.ActionPurge, ph.Purge))

	// Customer endpoints (read-only; rows materialize via the project lifecycle)
	ch := handlers.NewCustomerHandler(customersSvc, ag)
	mux.Handle("/customers", protect(policy.ResourceCustomer, gate.ActionList, ch.List))
	mux.Handle("/customers/show", protect(policy.ResourceCustomer, gate.ActionView, ch.Show))

	// User administration (manager only via role permissions)
	uh := handlers.NewUserHandler(usersSvc, ag)
	mux.Handle("/users", auth.Middleware(auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ag.RequirePermission(policy.ResourceUser, gate.ActionList)(http.HandlerFunc(uh.List)).ServeHTTP(w, r)
		case http.MethodPost:
			ag.RequirePermission(policy.ResourceUser, gate.ActionCreate)(http.HandlerFunc(uh.Create)).ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))))
	mux.Handle("/users/update", protect(policy.ResourceUser, gate.ActionUpdate, uh.Update))
	mux.Handle("/users/delete", protect(policy.ResourceUser, gate.ActionDelete, uh.Delete))
	mux.Handle("/users/trashed", protect(policy.ResourceUser, gate.ActionList, uh.Trashed))
	mux.Handle("/users/restore", protect(policy.ResourceUser, gate.ActionRestore, uh.Restore))
	mux.Handle("/users/purge", protect(policy.ResourceUser, gate.ActionPurge, uh.Purge))

	// Reports
	rh := handlers.NewReportHandler(reportsSvc, ag)
	mux.Handle("/reports", protect(policy.ResourceReport, gate.ActionView, rh.Show))
	mux.Handle("/reports/export", protect(policy.ResourceReport, gate.ActionExport, rh.Export))

	// Root placeholder
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, werr := w.Write([]byte("Sales CRM API")); werr != nil {
			_ = werr
		}
	})
	//revive:enable:unused-parameter

	return withRecover(withLogging(mux))
}

func post(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Simple middleware logging & recovery kept private to this package.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
