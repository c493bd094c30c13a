package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/lotto/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/lotto/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/lotto/internal/api/middleware"
	"github.com/yizeng/gab/gin/lotto/internal/config"
	"github.com/yizeng/gab/gin/lotto/internal/domain"
	"github.com/yizeng/gab/gin/lotto/internal/form"
	"github.com/yizeng/gab/gin/lotto/internal/pkg/jwthelper"
	"github.com/yizeng/gab/gin/lotto/internal/service"
)

type PlayService interface {
	StartPlay(ctx context.Context) (domain.Play, error)
	GetPlay(ctx context.Context, id string) (domain.Play, error)
	EndPlay(ctx context.Context, id string) error
	ChangePrice(ctx context.Context, id, value string) (domain.Play, error)
	SubmitPrice(ctx context.Context, id string) (form.PriceResult, domain.Play, error)
	ChangeWinningNumber(ctx context.Context, id string, index int, value string) (form.CheckState, domain.Play, error)
	SubmitWinningNumber(ctx context.Context, id string) (bool, domain.Play, error)
	CloseResultModal(ctx context.Context, id string) (domain.Play, error)
	Restart(ctx context.Context, id string) (domain.Play, error)
	Results(ctx context.Context, id string) (domain.WinningNumber, []domain.TicketResult, error)
	MaxTickets() int
}

type PlayHandler struct {
	conf *config.APIConfig
	svc  PlayService
}

func NewPlayHandler(conf *config.APIConfig, svc PlayService) *PlayHandler {
	return &PlayHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleStartPlay godoc
// @Summary      Start a new play
// @Description  Creates an empty play and returns the token that identifies it.
// @Tags         plays
// @Produce      json
// @Success      201  {object}  response.StartPlayResponse
// @Failure      500  {object}  response.Err
// @Router       /plays [post]
func (h *PlayHandler) HandleStartPlay(ctx *gin.Context) {
	play, err := h.svc.StartPlay(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleStartPlay -> h.svc.StartPlay -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), play.ID, ctx.Request.UserAgent(), h.conf.TokenTTL)
	if err != nil {
		err = fmt.Errorf("v1.HandleStartPlay -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.StartPlayResponse{
		Token: token,
		Play:  play,
	})
}

// HandleGetPlay godoc
// @Summary      Get the current play
// @Tags         plays
// @Produce      json
// @Success      200  {object}  domain.Play
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /plays/current [get]
// @Security     BearerAuth
func (h *PlayHandler) HandleGetPlay(ctx *gin.Context) {
	playID := getPlayIDFromContext(ctx)

	play, err := h.svc.GetPlay(ctx.Request.Context(), playID)
	if err != nil {
		renderServiceErr(ctx, playID, fmt.Errorf("v1.HandleGetPlay -> h.svc.GetPlay -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, play)
}

// HandleEndPlay godoc
// @Summary      End the current play
// @Tags         plays
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /plays/current [delete]
// @Security     BearerAuth
func (h *PlayHandler) HandleEndPlay(ctx *gin.Context) {
	playID := getPlayIDFromContext(ctx)

	if err := h.svc.EndPlay(ctx.Request.Context(), playID); err != nil {
		renderServiceErr(ctx, playID, fmt.Errorf("v1.HandleEndPlay -> h.svc.EndPlay -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleRestart godoc
// @Summary      Restart the current play
// @Description  Clears the price, tickets and winning numbers but keeps the play token valid.
// @Tags         plays
// @Produce      json
// @Success      200  {object}  domain.Play
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /plays/current/restart [post]
// @Security     BearerAuth
func (h *PlayHandler) HandleRestart(ctx *gin.Context) {
	playID := getPlayIDFromContext(ctx)

	play, err := h.svc.Restart(ctx.Request.Context(), playID)
	if err != nil {
		renderServiceErr(ctx, playID, fmt.Errorf("v1.HandleRestart -> h.svc.Restart -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, play)
}

// HandleGetPriceForm godoc
// @Summary      Get the price form
// @Tags         price
// @Produce      json
// @Success      200  {object}  response.PriceFormResponse
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /plays/current/price-form [get]
// @Security     BearerAuth
func (h *PlayHandler) HandleGetPriceForm(ctx *gin.Context) {
	playID := getPlayIDFromContext(ctx)

	play, err := h.svc.GetPlay(ctx.Request.Context(), playID)
	if err != nil {
		renderServiceErr(ctx, playID, fmt.Errorf("v1.HandleGetPriceForm -> h.svc.GetPlay -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.PriceFormResponse{
		Price: play.Price,
		Min:   play.Rules.UnitPrice,
		Step:  play.Rules.UnitPrice,
	})
}

// HandleChangePrice godoc
// @Summary      Change the price input
// @Description  Called on every keystroke. The value is stored as typed and returned for rendering.
// @Tags         price
// @Accept       json
// @Produce      json
// @Param        request  body      request.InputChangeRequest  true  "raw input value"
// @Success      200      {object}  response.PriceFormResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /plays/current/price [put]
// @Security     BearerAuth
func (h *PlayHandler) HandleChangePrice(ctx *gin.Context) {
	playID := getPlayIDFromContext(ctx)

	var req request.InputChangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	play, err := h.svc.ChangePrice(ctx.Request.Context(), playID, *req.Value)
	if err != nil {
		renderServiceErr(ctx, playID, fmt.Errorf("v1.HandleChangePrice -> h.svc.ChangePrice -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.PriceFormResponse{
		Price: play.Price,
		Min:   play.Rules.UnitPrice,
		Step:  play.Rules.UnitPrice,
	})
}

// HandleSubmitPrice godoc
// @Summary      Submit the price form
// @Description  A price below the unit price is rejected with a blocking alert. A price that is not a multiple of the unit price buys as many tickets as it can and comes with an informational alert. A price buying more tickets than allowed is rejected with a blocking alert.
// @Tags         price
// @Produce      json
// @Success      201  {object}  response.PriceSubmitResponse
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  response.PriceSubmitResponse
// @Router       /plays/current/price/submit [post]
// @Security     BearerAuth
func (h *PlayHandler) HandleSubmitPrice(ctx *gin.Context) {
	playID := getPlayIDFromContext(ctx)

	res, play, err := h.svc.SubmitPrice(ctx.Request.Context(), playID)
	if errors.Is(err, service.ErrTooManyTickets) {
		ctx.JSON(http.StatusUnprocessableEntity, response.PriceSubmitResponse{
			Result: res.Check.String(),
			Alert: &response.Alert{
				Blocking: true,
				Message:  domain.MsgTooManyTickets(h.svc.MaxTickets()),
			},
			Tickets: []domain.Ticket{},
		})
		return
	}
	if err != nil {
		renderServiceErr(ctx, playID, fmt.Errorf("v1.HandleSubmitPrice -> h.svc.SubmitPrice -> %w", err))
		return
	}

	resp := response.PriceSubmitResponse{
		Result:      res.Check.String(),
		TicketCount: play.TicketCount,
		Tickets:     play.Tickets,
	}
	if msg := res.Message(); msg != "" {
		resp.Alert = &response.Alert{
			Blocking: res.Blocking(),
			Message:  msg,
		}
	}

	if res.Blocking() {
		ctx.JSON(http.StatusUnprocessableEntity, resp)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// HandleGetWinningNumberForm godoc
// @Summary      Get the winning number form
// @Tags         winning-numbers
// @Produce      json
// @Success      200  {object}  response.WinningNumberFormResponse
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /plays/current/winning-number-form [get]
// @Security     BearerAuth
func (h *PlayHandler) HandleGetWinningNumberForm(ctx *gin.Context) {
	playID := getPlayIDFromContext(ctx)

	play, err := h.svc.GetPlay(ctx.Request.Context(), playID)
	if err != nil {
		renderServiceErr(ctx, playID, fmt.Errorf("v1.HandleGetWinningNumberForm -> h.svc.GetPlay -> %w", err))
		return
	}

	f, err := form.LoadWinningNumberForm(play.Rules, play.WinningInputs, play.CheckState, nil)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetWinningNumberForm -> form.LoadWinningNumberForm -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.WinningNumberFormResponse{
		Fields:         f.Fields(),
		State:          f.State(),
		SubmitDisabled: f.SubmitDisabled(),
	})
}

// HandleChangeWinningNumber godoc
// @Summary      Change one winning number input
// @Description  Called on every keystroke. Every input is re-checked and the new check state is returned.
// @Tags         winning-numbers
// @Accept       json
// @Produce      json
// @Param        index    path      int                         true  "input index, the last one is the bonus number"
// @Param        request  body      request.InputChangeRequest  true  "raw input value"
// @Success      200      {object}  response.CheckStateResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /plays/current/winning-numbers/{index} [put]
// @Security     BearerAuth
func (h *PlayHandler) HandleChangeWinningNumber(ctx *gin.Context) {
	playID := getPlayIDFromContext(ctx)

	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid input index: %w", err)))
		return
	}

	var req request.InputChangeRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	state, _, err := h.svc.ChangeWinningNumber(ctx.Request.Context(), playID, index, *req.Value)
	if err != nil {
		renderServiceErr(ctx, playID, fmt.Errorf("v1.HandleChangeWinningNumber -> h.svc.ChangeWinningNumber -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.CheckStateResponse{
		Index:          index,
		State:          state,
		SubmitDisabled: !state.IsCompletedInput,
	})
}

// HandleSubmitWinningNumber godoc
// @Summary      Submit the winning numbers
// @Description  Does nothing and reports submitted=false until every input is filled, in range and unique.
// @Tags         winning-numbers
// @Produce      json
// @Success      200  {object}  response.WinningNumberSubmitResponse
// @Success      201  {object}  response.WinningNumberSubmitResponse
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /plays/current/winning-numbers/submit [post]
// @Security     BearerAuth
func (h *PlayHandler) HandleSubmitWinningNumber(ctx *gin.Context) {
	playID := getPlayIDFromContext(ctx)

	submitted, play, err := h.svc.SubmitWinningNumber(ctx.Request.Context(), playID)
	if err != nil {
		renderServiceErr(ctx, playID, fmt.Errorf("v1.HandleSubmitWinningNumber -> h.svc.SubmitWinningNumber -> %w", err))
		return
	}

	if !submitted {
		ctx.JSON(http.StatusOK, response.WinningNumberSubmitResponse{})
		return
	}

	ctx.JSON(http.StatusCreated, response.WinningNumberSubmitResponse{
		Submitted:         true,
		WinningNumber:     play.WinningNumber,
		IsResultModalShow: play.IsResultModalShow,
	})
}

// HandleGetResults godoc
// @Summary      Get the ticket results
// @Tags         winning-numbers
// @Produce      json
// @Success      200  {object}  response.ResultsResponse
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /plays/current/results [get]
// @Security     BearerAuth
func (h *PlayHandler) HandleGetResults(ctx *gin.Context) {
	playID := getPlayIDFromContext(ctx)

	winning, results, err := h.svc.Results(ctx.Request.Context(), playID)
	if err != nil {
		renderServiceErr(ctx, playID, fmt.Errorf("v1.HandleGetResults -> h.svc.Results -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.ResultsResponse{
		WinningNumber: winning,
		Results:       results,
	})
}

// HandleCloseResultModal godoc
// @Summary      Close the result modal
// @Tags         winning-numbers
// @Produce      json
// @Success      200  {object}  domain.Play
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /plays/current/result-modal [delete]
// @Security     BearerAuth
func (h *PlayHandler) HandleCloseResultModal(ctx *gin.Context) {
	playID := getPlayIDFromContext(ctx)

	play, err := h.svc.CloseResultModal(ctx.Request.Context(), playID)
	if err != nil {
		renderServiceErr(ctx, playID, fmt.Errorf("v1.HandleCloseResultModal -> h.svc.CloseResultModal -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, play)
}

func getPlayIDFromContext(ctx *gin.Context) string {
	return ctx.GetString(middleware.PlayIDKey)
}

func renderServiceErr(ctx *gin.Context, playID string, err error) {
	switch {
	case errors.Is(err, service.ErrPlayNotFound):
		response.RenderErr(ctx, response.ErrNotFound("play", "id", playID))
	case errors.Is(err, form.ErrInputIndexOutOfRange):
		response.RenderErr(ctx, response.ErrBadRequest(form.ErrInputIndexOutOfRange))
	case errors.Is(err, service.ErrTooManyTickets):
		response.RenderErr(ctx, response.ErrUnprocessableEntity(service.ErrTooManyTickets))
	case errors.Is(err, service.ErrNoWinningNumber):
		response.RenderErr(ctx, response.ErrConflict(service.ErrNoWinningNumber))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
