package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/callumw/snagshare/internal/apperr"
	"github.com/callumw/snagshare/internal/domain"
	"github.com/callumw/snagshare/internal/draft"
	"github.com/callumw/snagshare/internal/payment"
	"github.com/callumw/snagshare/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API. This is the only layer
// that translates domain errors into transport-level status codes.
type APIHandlers struct {
	logger *slog.Logger
	drafts *draft.Store
	shares *service.ShareService
	broker *payment.Broker
	reset  *service.ResetService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, drafts *draft.Store, shares *service.ShareService, broker *payment.Broker, reset *service.ResetService) *APIHandlers {
	return &APIHandlers{
		logger: logger,
		drafts: drafts,
		shares: shares,
		broker: broker,
		reset:  reset,
	}
}

func (h *APIHandlers) handleDraft(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required", "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, toDraftResponse(h.drafts.Read(userID)))
	case http.MethodPatch:
		var payload draftPatchRequest
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		merged := h.drafts.Update(userID, payload.toPatch())
		respondJSON(w, http.StatusOK, toDraftResponse(merged))
	case http.MethodDelete:
		respondJSON(w, http.StatusOK, toDraftResponse(h.drafts.Reset(userID)))
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (h *APIHandlers) handleShareSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload shareRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	shareID, err := h.shares.Submit(r.Context(), payload.UserID, payload.toShareData())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	// A successful submission consumes the draft; the wizard starts fresh.
	h.drafts.Reset(payload.UserID)

	respondJSON(w, http.StatusCreated, shareCreatedResponse{ShareID: shareID})
}

func (h *APIHandlers) handleShareStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/share/")
	shareID := strings.Trim(strings.TrimSuffix(path, "/status"), "/")
	if shareID == "" || shareID == path {
		writeError(w, http.StatusNotFound, "not found", "")
		return
	}

	status, err := h.shares.Status(r.Context(), shareID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, shareStatusResponse{
		ShareID: shareID,
		Status:  string(status),
	})
}

func (h *APIHandlers) handlePaymentSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload sessionRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	if payload.ShareID == "" {
		writeError(w, http.StatusBadRequest, "shareId is required", "")
		return
	}

	sess, err := h.broker.CreateSession(r.Context(), payload.ShareID, payload.UserID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{
		SessionID:    sess.ID,
		URL:          sess.URL,
		ClientSecret: sess.ClientSecret,
	})
}

func (h *APIHandlers) handlePaymentVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required", "")
		return
	}

	result, err := h.broker.VerifySession(r.Context(), sessionID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	resp := verifyResponse{
		Verified:      result.Verified,
		PaymentStatus: result.PaymentStatus,
	}
	if result.ShareID != "" {
		resp.ShareID = &result.ShareID
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	userID := r.URL.Query().Get("userId")
	progress, err := h.shares.Progress(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, progressResponse{
		SnagCount:      progress.SnagCount,
		CurrentShareID: progress.CurrentShareID,
	})
}

func (h *APIHandlers) handleAdminReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload resetRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	if err := h.reset.Reset(r.Context(), payload.UserID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, resetResponse{Success: true})
}

// --- Request & Response DTOs ---

type addressDetailsPayload struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	Town     string `json:"town"`
	County   string `json:"county,omitempty"`
	Postcode string `json:"postcode"`
}

type shareRequest struct {
	UserID         string                 `json:"userId"`
	FullName       string                 `json:"fullName"`
	Address        string                 `json:"address"`
	AddressDetails *addressDetailsPayload `json:"addressDetails"`
	BuilderType    string                 `json:"builderType"`
	BuilderName    string                 `json:"builderName"`
	BuilderEmail   string                 `json:"builderEmail"`
}

type draftPatchRequest struct {
	FullName       *string                `json:"fullName"`
	Address        *string                `json:"address"`
	AddressDetails *addressDetailsPayload `json:"addressDetails"`
	BuilderType    *string                `json:"builderType"`
	BuilderName    *string                `json:"builderName"`
	BuilderEmail   *string                `json:"builderEmail"`
}

type draftResponse struct {
	FullName       string                `json:"fullName"`
	Address        string                `json:"address"`
	AddressDetails addressDetailsPayload `json:"addressDetails"`
	BuilderType    string                `json:"builderType"`
	BuilderName    string                `json:"builderName"`
	BuilderEmail   string                `json:"builderEmail"`
}

type shareCreatedResponse struct {
	ShareID string `json:"shareId"`
}

type shareStatusResponse struct {
	ShareID string `json:"shareId"`
	Status  string `json:"status"`
}

type sessionRequest struct {
	ShareID string `json:"shareId"`
	UserID  string `json:"userId"`
}

type sessionResponse struct {
	SessionID    string `json:"sessionId"`
	URL          string `json:"url,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

type verifyResponse struct {
	Verified      bool    `json:"verified"`
	PaymentStatus string  `json:"paymentStatus"`
	ShareID       *string `json:"shareId,omitempty"`
}

type progressResponse struct {
	SnagCount      int64  `json:"snagCount"`
	CurrentShareID string `json:"currentShareId,omitempty"`
}

type resetRequest struct {
	UserID string `json:"userId"`
}

type resetResponse struct {
	Success bool `json:"success"`
}

// --- Helpers ---

func (req shareRequest) toShareData() domain.ShareData {
	data := domain.ShareData{
		FullName:     req.FullName,
		Address:      req.Address,
		BuilderType:  domain.BuilderType(req.BuilderType),
		BuilderName:  req.BuilderName,
		BuilderEmail: req.BuilderEmail,
	}
	if req.AddressDetails != nil {
		data.AddressDetails = req.AddressDetails.toDomain()
	}
	return data
}

func (req draftPatchRequest) toPatch() domain.ShareDataPatch {
	patch := domain.ShareDataPatch{
		FullName:     req.FullName,
		Address:      req.Address,
		BuilderName:  req.BuilderName,
		BuilderEmail: req.BuilderEmail,
	}
	if req.BuilderType != nil {
		builderType := domain.BuilderType(*req.BuilderType)
		patch.BuilderType = &builderType
	}
	if req.AddressDetails != nil {
		details := req.AddressDetails.toDomain()
		patch.AddressDetails = &details
	}
	return patch
}

func (p addressDetailsPayload) toDomain() domain.AddressDetails {
	return domain.AddressDetails{
		Line1:    p.Line1,
		Line2:    p.Line2,
		Town:     p.Town,
		County:   p.County,
		Postcode: p.Postcode,
	}
}

func toDraftResponse(data domain.ShareData) draftResponse {
	return draftResponse{
		FullName: data.FullName,
		Address:  data.Address,
		AddressDetails: addressDetailsPayload{
			Line1:    data.AddressDetails.Line1,
			Line2:    data.AddressDetails.Line2,
			Town:     data.AddressDetails.Town,
			County:   data.AddressDetails.County,
			Postcode: data.AddressDetails.Postcode,
		},
		BuilderType:  string(data.BuilderType),
		BuilderName:  data.BuilderName,
		BuilderEmail: data.BuilderEmail,
	}
}

// writeDomainError maps errors from the workflow onto the externally visible
// error contract: a stable "error" string and an optional "details" string.
func (h *APIHandlers) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *apperr.ValidationError
	var resetErr *apperr.ResetError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation failed",
			"missing "+strings.Join(validationErr.Fields, ", "))

	case errors.Is(err, apperr.ErrMissingUser):
		writeError(w, http.StatusBadRequest, "userId is required", "")

	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", err.Error())

	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid status transition", err.Error())

	case errors.Is(err, apperr.ErrGateway):
		h.logger.Error("payment gateway failure", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusBadGateway, "payment gateway failure", "")

	case errors.As(err, &resetErr):
		h.logger.Error("reset failed", "error", err, "partial", resetErr.Partial)
		details := "no changes were applied"
		if resetErr.Partial {
			details = "partially applied, operator intervention required"
		}
		writeError(w, http.StatusInternalServerError, "reset failed", details)

	default:
		h.logger.Error("request failed", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	body := map[string]string{
		"error": msg,
	}
	if details != "" {
		body["details"] = details
	}
	respondJSON(w, status, body)
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
}
