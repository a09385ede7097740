package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fmbakop/cotisio/internal/logging"
)

// Server bundles the services behind the REST surface.
type Server struct {
	users        UserService
	references   ReferenceService
	employers    EmployerService
	insured      InsuredService
	declarations DeclarationService
	payments     PaymentService
	recovery     RecoveryService
	kpi          KPIService

	secretKey []byte
	logger    logging.Logger
}

func NewServer(
	users UserService,
	references ReferenceService,
	employers EmployerService,
	insured InsuredService,
	declarations DeclarationService,
	payments PaymentService,
	recovery RecoveryService,
	kpi KPIService,
	secretKey []byte,
	logger logging.Logger,
) *Server {
	return &Server{
		users:        users,
		references:   references,
		employers:    employers,
		insured:      insured,
		declarations: declarations,
		payments:     payments,
		recovery:     recovery,
		kpi:          kpi,
		secretKey:    secretKey,
		logger:       logger,
	}
}

// Router builds the chi mux. Everything under /api except auth requires a
// bearer token.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(s.secretKey))

			r.Route("/sectors", func(r chi.Router) {
				r.Post("/", s.handleCreateSector)
				r.Get("/", s.handleListSectors)
			})
			r.Route("/regions", func(r chi.Router) {
				r.Post("/", s.handleCreateRegion)
				r.Get("/", s.handleListRegions)
			})

			r.Route("/employers", func(r chi.Router) {
				r.Post("/", s.handleCreateEmployer)
				r.Get("/", s.handleListEmployers)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetEmployer)
					r.Put("/", s.handleUpdateEmployer)
					r.Post("/status", s.handleEmployerTransition)
					r.Post("/documents", s.handleAttachDocument)
					r.Get("/documents", s.handleListDocuments)
				})
			})
			r.Get("/documents/download", s.handleDocumentDownloadURL)

			r.Route("/insured", func(r chi.Router) {
				r.Post("/", s.handleCreateInsured)
				r.Get("/", s.handleListInsured)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetInsured)
					r.Put("/", s.handleUpdateInsured)
				})
			})

			r.Route("/declarations", func(r chi.Router) {
				r.Post("/", s.handleCreateDeclaration)
				r.Get("/", s.handleListDeclarations)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetDeclaration)
					r.Post("/submit", s.declarationTransitionHandler(s.declarations.Submit))
					r.Post("/validate", s.declarationTransitionHandler(s.declarations.Validate))
					r.Post("/reject", s.declarationTransitionHandler(s.declarations.Reject))
				})
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", s.handleRecordPayment)
				r.Get("/", s.handleListPayments)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetPayment)
					r.Post("/confirm", s.paymentTransitionHandler(s.payments.Confirm))
					r.Post("/reject", s.paymentTransitionHandler(s.payments.Reject))
					r.Get("/proof", s.handlePaymentProofURL)
				})
			})

			r.Route("/recovery-actions", func(r chi.Router) {
				r.Post("/", s.handleCreateRecoveryAction)
				r.Get("/", s.handleListRecoveryActions)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetRecoveryAction)
					r.Put("/", s.handleUpdateRecoveryAction)
					r.Delete("/", s.handleDeleteRecoveryAction)
				})
			})

			r.Get("/dashboard", s.handleDashboard)
			r.Get("/dashboard/arrears", s.handleArrears)
		})
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
