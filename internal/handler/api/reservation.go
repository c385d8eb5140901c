package api

import (
	"errors"
	"net/http"

	reqdto "vehicle-rental/internal/handler/dto/request"
	resdto "vehicle-rental/internal/handler/dto/response"
	"vehicle-rental/internal/handler/httperr"
	"vehicle-rental/internal/handler/middleware"
	"vehicle-rental/internal/pkg/token"
	"vehicle-rental/internal/usecase/commands"
	"vehicle-rental/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
	tokens   *token.Service
}

func NewReservationHandler(
	cmds commands.ReservationCommands,
	qrys queries.ReservationQueries,
	tokens *token.Service,
) *ReservationHandler {
	return &ReservationHandler{
		commands: cmds,
		queries:  qrys,
		tokens:   tokens,
	}
}

// @Summary Start reservation
// @Description Step 0: submit trip details, receive a draft token and quote
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body reqdto.TripDetailsRequest true "Trip details"
// @Success 201 {object} resdto.StartReservationResponse
// @Failure 400 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Start(c *gin.Context) {
	var req reqdto.TripDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.commands.StartReservation(c.Request.Context(), req.ToInput())
	if err != nil {
		h.abortWithCommandError(c, err)
		return
	}

	draftToken, err := h.tokens.GenerateDraftToken(result.ReservationID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusCreated, resdto.StartReservationResponse{
		ID:         result.ReservationID,
		DraftToken: draftToken,
		Breakdown:  result.Breakdown,
	})
}

// @Summary Update trip details
// @Description Backward edit of step 0 on an existing draft
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.TripDetailsRequest true "Trip details"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id}/trip [put]
func (h *ReservationHandler) UpdateTripDetails(c *gin.Context) {
	id, ok := middleware.GetReservationID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing reservation context"), "Internal server error", nil)
		return
	}

	var req reqdto.TripDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.commands.UpdateTripDetails(c.Request.Context(), id, req.ToInput()); err != nil {
		h.abortWithCommandError(c, err)
		return
	}

	h.respondWithView(c, http.StatusOK)
}

// @Summary Submit extras
// @Description Step 1: add-on quantities
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ExtrasRequest true "Extras selection"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/extras [put]
func (h *ReservationHandler) SubmitExtras(c *gin.Context) {
	id, ok := middleware.GetReservationID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing reservation context"), "Internal server error", nil)
		return
	}

	var req reqdto.ExtrasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.commands.SubmitExtras(c.Request.Context(), id, req.Extras); err != nil {
		h.abortWithCommandError(c, err)
		return
	}

	h.respondWithView(c, http.StatusOK)
}

// @Summary Submit identity
// @Description Step 2: licence and identity details, free-form
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.IdentityRequest true "Identity details"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/identity [put]
func (h *ReservationHandler) SubmitIdentity(c *gin.Context) {
	id, ok := middleware.GetReservationID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing reservation context"), "Internal server error", nil)
		return
	}

	var req reqdto.IdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.commands.SubmitIdentity(c.Request.Context(), id, req.ToInput()); err != nil {
		h.abortWithCommandError(c, err)
		return
	}

	h.respondWithView(c, http.StatusOK)
}

// @Summary Confirm reservation
// @Description Step 3: optional coupon, final price, booking moves to pending payment
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ConfirmRequest true "Confirmation"
// @Success 200 {object} resdto.ConfirmResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/confirm [post]
func (h *ReservationHandler) Confirm(c *gin.Context) {
	id, ok := middleware.GetReservationID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing reservation context"), "Internal server error", nil)
		return
	}

	var req reqdto.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.commands.Confirm(c.Request.Context(), id, req.GetCouponCode())
	if err != nil {
		h.abortWithCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromConfirmResult(result, "PENDING_PAYMENT"))
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	h.respondWithView(c, http.StatusOK)
}

// @Summary Quote reservation
// @Description Recompute the billing breakdown, optionally previewing a coupon
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param coupon query string false "Coupon code to preview"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Router /reservations/{id}/quote [get]
func (h *ReservationHandler) Quote(c *gin.Context) {
	id, ok := middleware.GetReservationID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing reservation context"), "Internal server error", nil)
		return
	}

	var couponCode *string
	if code := c.Query("coupon"); code != "" {
		couponCode = &code
	}

	breakdown, err := h.queries.Quote(c.Request.Context(), id, couponCode)
	if err != nil {
		h.abortWithQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.QuoteResponse{Breakdown: *breakdown})
}

func (h *ReservationHandler) respondWithView(c *gin.Context, status int) {
	id, ok := middleware.GetReservationID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing reservation context"), "Internal server error", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		h.abortWithQueryError(c, err)
		return
	}

	c.JSON(status, view)
}

func (h *ReservationHandler) abortWithCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errors.Is(err, commands.ErrInvalidCoupon):
		// Deliberately generic: the customer never learns which predicate
		// rejected the code.
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid or expired coupon", nil)
	case errors.Is(err, commands.ErrStepOutOfOrder):
		httperr.AbortWithError(c, http.StatusConflict, err, "Previous steps must be completed first", nil)
	case errors.Is(err, commands.ErrNotDraft):
		httperr.AbortWithError(c, http.StatusConflict, err, "Reservation can no longer be edited", nil)
	case errors.Is(err, commands.ErrValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Validation failed", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func (h *ReservationHandler) abortWithQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errors.Is(err, queries.ErrInvalidCoupon):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid or expired coupon", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
