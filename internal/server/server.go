//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/custody"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

const dateLayout = "2006-01-02"

type CustodyService interface {
	SubmitBookingRequests(ctx context.Context, batch []custody.BookingInput) (*custody.SubmitResult, error)
	UpdateRequestStatus(ctx context.Context, requestID int64, target repository.RequestStatus) error
	ExtendDuration(ctx context.Context, in custody.ExtendInput) (*repository.Request, error)
	ConfirmKeeperReturn(ctx context.Context, deviceID int64, keeperNo int, newCurrentKeeperID int64) (*custody.ReturnResult, error)
	ConfirmOwnerReturn(ctx context.Context, deviceID int64, newCurrentKeeperID int64) (*custody.ReturnResult, error)
	ListRequests(ctx context.Context, employeeID int64, filter custody.RequestFilter, page custody.PageRequest) (*custody.RequestPage, error)
	SuggestRequestKeywords(ctx context.Context, employeeID int64, column, keyword string, filter custody.RequestFilter) ([]string, error)
	KeeperChain(ctx context.Context, deviceID int64) (*repository.KeeperChain, error)
	HasRequestsInStatus(ctx context.Context, deviceID int64, status repository.RequestStatus) (bool, error)
	DeleteRequestsInStatus(ctx context.Context, deviceID int64, status repository.RequestStatus) (int64, error)
	ClearDeviceForDeletion(ctx context.Context, deviceID int64) error
}

type UserRepo interface {
	ValidateUser(ctx context.Context, username, password string) (bool, error)
	GetByUsername(ctx context.Context, username string) (*repository.User, error)
}

type AuditConfig struct {
	Workers   int
	BatchSize int
	Timeout   time.Duration
}

type Server struct {
	service      CustodyService
	userRepo     UserRepo
	logger       *zap.Logger
	server       *http.Server
	AuditManager *AuditManager
}

func New(service CustodyService, userRepo UserRepo, logger *zap.Logger, audit AuditConfig) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if audit.Workers <= 0 {
		audit.Workers = 2
	}
	if audit.BatchSize <= 0 {
		audit.BatchSize = 5
	}
	if audit.Timeout <= 0 {
		audit.Timeout = 500 * time.Millisecond
	}
	return &Server{
		service:      service,
		userRepo:     userRepo,
		logger:       logger,
		AuditManager: NewAuditManager(audit.Workers, audit.BatchSize, audit.Timeout, logger.Named("audit")),
	}
}

// Run serves the API until Shutdown is called.
func (s *Server) Run(ctx context.Context, port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      otelhttp.NewHandler(s.Router(), "custody-http"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.AuditManager.Start(ctx)

	s.logger.Info("Server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.logger.Info("HTTP server shutdown completed")

	s.AuditManager.Shutdown(ctx)
	s.logger.Info("Server shutdown completed successfully")
	return nil
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.Use(s.auditLogMiddleware, s.basicAuthMiddleware)

	router.HandleFunc("/requests", s.handleSubmitRequests).Methods(http.MethodPost).Name("handleSubmitRequests")
	router.HandleFunc("/requests/extend", s.handleExtendDuration).Methods(http.MethodPut).Name("handleExtendDuration")
	router.HandleFunc("/requests/{id:[0-9]+}/status", s.handleUpdateRequestStatus).Methods(http.MethodPut).Name("handleUpdateRequestStatus")

	router.HandleFunc("/employees/{id:[0-9]+}/requests", s.handleListRequests).Methods(http.MethodGet).Name("handleListRequests")
	router.HandleFunc("/employees/{id:[0-9]+}/requests/suggestion", s.handleSuggestKeywords).Methods(http.MethodGet).Name("handleSuggestKeywords")

	router.HandleFunc("/devices/keepers/return", s.handleKeeperReturn).Methods(http.MethodPut).Name("handleKeeperReturn")
	router.HandleFunc("/devices/owners/return", s.handleOwnerReturn).Methods(http.MethodPut).Name("handleOwnerReturn")
	router.HandleFunc("/devices/{id:[0-9]+}/keepers", s.handleKeeperChain).Methods(http.MethodGet).Name("handleKeeperChain")
	router.HandleFunc("/devices/{id:[0-9]+}/requests", s.handleHasRequests).Methods(http.MethodGet).Name("handleHasRequests")
	router.HandleFunc("/devices/{id:[0-9]+}/requests", s.handleDeleteRequests).Methods(http.MethodDelete).Name("handleDeleteRequests")

	return router
}

type userKey struct{}

func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		valid, err := s.userRepo.ValidateUser(r.Context(), username, password)
		if err != nil || !valid {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := s.userRepo.GetByUsername(r.Context(), username)
		if err != nil {
			s.logger.Error("Failed to load authenticated user", zap.String("username", username), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

func currentUser(r *http.Request) (*repository.User, bool) {
	user, ok := r.Context().Value(userKey{}).(*repository.User)
	return user, ok && user != nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps engine error kinds to status codes and counts the
// failure for op.
func (s *Server) respondServiceError(w http.ResponseWriter, op string, err error) {
	metrics.OperationErrorsTotal.WithLabelValues(op).Inc()

	var custodyErr *custody.Error
	switch {
	case errors.Is(err, custody.ErrInvariant):
		respondError(w, http.StatusInternalServerError, "internal error")
	case !errors.As(err, &custodyErr):
		s.logger.Error("Request failed", zap.String("op", op), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	case errors.Is(err, custody.ErrValidation):
		respondError(w, http.StatusBadRequest, custodyErr.Message)
	case errors.Is(err, custody.ErrNotFound):
		respondError(w, http.StatusNotFound, custodyErr.Message)
	case errors.Is(err, custody.ErrNotAcceptable):
		respondError(w, http.StatusNotAcceptable, custodyErr.Message)
	case errors.Is(err, custody.ErrConflict):
		respondError(w, http.StatusConflict, custodyErr.Message)
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
