package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/segyhp/lending-engine/internal/domain"
	"github.com/segyhp/lending-engine/internal/engine"
	customError "github.com/segyhp/lending-engine/pkg/errors"
	"github.com/segyhp/lending-engine/pkg/response"
	"github.com/segyhp/lending-engine/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CollectionService is what the HTTP layer needs from the service package.
type CollectionService interface {
	CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.CreateLoanResponse, error)
	RecordPayment(ctx context.Context, request *domain.MakePaymentRequest) (*domain.MakePaymentResponse, error)
	GetLateFeeBreakdown(ctx context.Context, loanID string, asOf time.Time) (*engine.LedgerBreakdown, error)
	GetLateFeeHistory(ctx context.Context, loanID string) (*domain.LateFeeHistoryResponse, error)
	GetOutstanding(ctx context.Context, loanID string) (*domain.OutstandingResponse, error)
	GetSchedule(ctx context.Context, loanID string) (*domain.ScheduleResponse, error)
	PreviewAllocation(ctx context.Context, loanID string, amount decimal.Decimal) (*engine.Allocation, error)
	ReconcileLoan(ctx context.Context, loanID string) (*engine.ConsistencyReport, error)
	DeleteLoan(ctx context.Context, loanID string) error
}

type CollectionHandler struct {
	service   CollectionService
	validator *validator.Validate
	log       *logrus.Logger
	now       func() time.Time
}

func NewCollectionHandler(service CollectionService, log *logrus.Logger) *CollectionHandler {
	return &CollectionHandler{
		service:   service,
		validator: newValidator(),
		log:       log,
		now:       time.Now,
	}
}

// RegisterRoutes mounts the loan endpoints on router.
func (h *CollectionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/loans", h.CreateLoan).Methods(http.MethodPost)
	router.HandleFunc("/loans/{loanId}", h.DeleteLoan).Methods(http.MethodDelete)
	router.HandleFunc("/loans/{loanId}/schedule", h.GetSchedule).Methods(http.MethodGet)
	router.HandleFunc("/loans/{loanId}/outstanding", h.GetOutstanding).Methods(http.MethodGet)
	router.HandleFunc("/loans/{loanId}/late-fees", h.GetLateFees).Methods(http.MethodGet)
	router.HandleFunc("/loans/{loanId}/late-fee-history", h.GetLateFeeHistory).Methods(http.MethodGet)
	router.HandleFunc("/loans/{loanId}/payments", h.MakePayment).Methods(http.MethodPost)
	router.HandleFunc("/loans/{loanId}/allocation-preview", h.PreviewAllocation).Methods(http.MethodPost)
	router.HandleFunc("/loans/{loanId}/reconcile", h.Reconcile).Methods(http.MethodPost)
}

func (h *CollectionHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if !h.decode(w, r, &request) {
		return
	}

	result, err := h.service.CreateLoan(r.Context(), &request)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, result)
}

func (h *CollectionHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	var request domain.MakePaymentRequest
	if !h.decode(w, r, &request) {
		return
	}
	request.LoanID = mux.Vars(r)["loanId"]

	result, err := h.service.RecordPayment(r.Context(), &request)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, result)
}

func (h *CollectionHandler) PreviewAllocation(w http.ResponseWriter, r *http.Request) {
	var request domain.PreviewAllocationRequest
	if !h.decode(w, r, &request) {
		return
	}

	result, err := h.service.PreviewAllocation(r.Context(), mux.Vars(r)["loanId"], request.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Success(w, result)
}

// GetLateFees accepts an optional as_of date (YYYY-MM-DD); it defaults to
// today in UTC.
func (h *CollectionHandler) GetLateFees(w http.ResponseWriter, r *http.Request) {
	asOf := utils.CalendarDate(h.now().UTC())
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			response.BadRequest(w, "as_of must be a YYYY-MM-DD date", err)
			return
		}
		asOf = parsed
	}

	result, err := h.service.GetLateFeeBreakdown(r.Context(), mux.Vars(r)["loanId"], asOf)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *CollectionHandler) GetLateFeeHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetLateFeeHistory(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *CollectionHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetOutstanding(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *CollectionHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetSchedule(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *CollectionHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ReconcileLoan(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *CollectionHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteLoan(r.Context(), mux.Vars(r)["loanId"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads and validates a JSON body. It writes the error response itself
// and reports whether the handler should continue.
func (h *CollectionHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return false
	}
	return true
}

func (h *CollectionHandler) writeError(w http.ResponseWriter, err error) {
	code := customError.Code(err)
	status := statusFor(code)

	if status >= http.StatusInternalServerError {
		h.log.WithError(err).WithField("code", code).Error("request failed")
		response.CodedError(w, status, code, "Internal server error", nil)
		return
	}

	message := err.Error()
	var be *customError.BusinessError
	if errors.As(err, &be) {
		message = be.Message
	}
	response.CodedError(w, status, code, message, nil)
}

func statusFor(code string) int {
	switch code {
	case customError.ErrCodeLoanNotFound:
		return http.StatusNotFound
	case customError.ErrCodeLoanAlreadyExists, customError.ErrCodeLoanBusy:
		return http.StatusConflict
	case customError.ErrCodeInvalidLoanTerms, customError.ErrCodeInvalidFeePolicy, customError.ErrCodeInvalidPaymentAmount:
		return http.StatusBadRequest
	case customError.ErrCodeAllocationOverflow, customError.ErrCodeLateFeeOverpayment,
		customError.ErrCodeLoanNotActive, customError.ErrCodeNoOutstandingBalance:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
