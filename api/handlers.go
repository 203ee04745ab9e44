package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"schedulink/apperr"
	"schedulink/config"
	"schedulink/slot"
	"schedulink/user"
)

// maxBodyBytes bounds request payloads; every body in this API is a small object.
const maxBodyBytes = 1 << 20

type API struct {
	router *mux.Router
	db     *sql.DB
	logger *zap.Logger
	cfg    config.ServerConfig

	users *user.Accessor
	slots *slot.Accessor
}

func NewAPI(db *sql.DB, logger *zap.Logger, cfg config.ServerConfig) *API {
	users := user.NewAccessor(db)
	return &API{
		router: mux.NewRouter(),
		db:     db,
		logger: logger,
		cfg:    cfg,
		users:  users,
		slots:  slot.NewAccessor(db, users),
	}
}

// Router returns the bare router without middleware.
func (a *API) Router() http.Handler {
	return a.router
}

func (a *API) RegisterRoutes() {
	a.router.HandleFunc("/", a.index).Methods(http.MethodGet)
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)

	a.router.HandleFunc("/users", a.createUser).Methods(http.MethodPost)
	a.router.HandleFunc("/users", a.getUsers).Methods(http.MethodGet)
	a.router.HandleFunc("/users/{id}", a.getUser).Methods(http.MethodGet)

	a.router.HandleFunc("/slots", a.createSlot).Methods(http.MethodPost)
	a.router.HandleFunc("/slots", a.getSlots).Methods(http.MethodGet)
	a.router.HandleFunc("/slots/{id}", a.getSlot).Methods(http.MethodGet)
	a.router.HandleFunc("/slots/{id}", a.bookSlot).Methods(http.MethodPatch)

	a.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.Response(w, http.StatusNotFound, errorResponse{Error: string(apperr.KindNotFound), Message: "route not found"})
	})
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Error("encode response", zap.Error(err))
	}
}

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation:    http.StatusBadRequest,
	apperr.KindConflict:      http.StatusBadRequest,
	apperr.KindNotFound:      http.StatusNotFound,
	apperr.KindAlreadyBooked: http.StatusBadRequest,
}

// Error writes err as a JSON error body. Typed failures keep their message;
// anything else is logged and reported as a generic internal error.
func (a *API) Error(w http.ResponseWriter, r *http.Request, err error) {
	if e, ok := apperr.As(err); ok {
		a.Response(w, statusByKind[e.Kind], errorResponse{
			Error:   string(e.Kind),
			Message: e.Message,
			Details: e.Details,
		})
		return
	}

	a.logger.Error("request failed",
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestID(r.Context())),
	)
	a.Response(w, http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: "internal server error",
	})
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation("request body too large", map[string]string{"payload": fmt.Sprintf("must be at most %d bytes", maxErr.Limit)})
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "payload"
			}
			return apperr.Validation("invalid request body", map[string]string{field: "has the wrong type"})
		}
		return apperr.Validation("invalid request body", map[string]string{"payload": err.Error()})
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid id "+strconv.Quote(raw), map[string]string{"id": "must be a positive integer"})
	}
	return id, nil
}
