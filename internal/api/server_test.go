package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/lotto/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/lotto/internal/config"
	"github.com/yizeng/gab/gin/lotto/internal/domain"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:        "test",
			Port:               "0",
			BaseURL:            "localhost",
			AllowedCORSDomains: []string{"http://localhost:3000"},
			JWTSigningKey:      "test-signing-key",
			TokenTTL:           time.Hour,
		},
		Gin: &config.GinConfig{Mode: gin.TestMode},
		Lotto: &config.LottoConfig{
			UnitPrice:         domain.DefaultUnitPrice,
			MinNumber:         domain.DefaultMinNumber,
			MaxNumber:         domain.DefaultMaxNumber,
			NumberLength:      domain.DefaultNumberLength,
			BonusNumberLength: domain.DefaultBonusNumberLength,
			MaxTickets:        100,
		},
	}

	return NewServer(conf)
}

type client struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

func startPlay(t *testing.T, s *Server) *client {
	t.Helper()

	c := &client{t: t, router: s.Router}
	rec := c.do(http.MethodPost, "/plays", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	started := decode[response.StartPlayResponse](t, rec)
	require.NotEmpty(t, started.Token)
	c.token = started.Token

	return c
}

func value(v string) map[string]any {
	return map[string]any{"value": v}
}

func TestHealthcheck(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSwaggerDoc_CoversRoutes(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decode[struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}](t, rec)

	param := regexp.MustCompile(`:(\w+)`)
	for _, route := range s.Router.Routes() {
		if strings.HasPrefix(route.Path, "/swagger") {
			continue
		}

		path := strings.TrimPrefix(route.Path, "/api/v1")
		path = param.ReplaceAllString(path, "{$1}")

		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "%s is not documented", route.Path) {
			assert.Contains(t, ops, strings.ToLower(route.Method), route.Path)
		}
	}
}

func TestPlays_RequireToken(t *testing.T) {
	c := &client{t: t, router: newTestServer(t).Router}

	rec := c.do(http.MethodGet, "/plays/current", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPriceForm(t *testing.T) {
	tests := []struct {
		name        string
		price       string
		wantCode    int
		wantResult  string
		wantAlert   *response.Alert
		wantTickets int
	}{
		{name: "exact", price: "5000", wantCode: http.StatusCreated, wantResult: "ok", wantTickets: 5},
		{
			name: "has change", price: "3500", wantCode: http.StatusCreated, wantResult: "has_change",
			wantAlert: &response.Alert{Message: "You have 500 in change."}, wantTickets: 3,
		},
		{
			name: "below minimum", price: "500", wantCode: http.StatusUnprocessableEntity, wantResult: "below_minimum",
			wantAlert: &response.Alert{Blocking: true, Message: domain.MsgLessThanMinPrice},
		},
		{
			name: "empty", price: "", wantCode: http.StatusUnprocessableEntity, wantResult: "below_minimum",
			wantAlert: &response.Alert{Blocking: true, Message: domain.MsgLessThanMinPrice},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := startPlay(t, newTestServer(t))

			rec := c.do(http.MethodPut, "/plays/current/price", value(tt.price))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.price, decode[response.PriceFormResponse](t, rec).Price)

			rec = c.do(http.MethodPost, "/plays/current/price/submit", nil)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			got := decode[response.PriceSubmitResponse](t, rec)
			assert.Equal(t, tt.wantResult, got.Result)
			assert.Equal(t, tt.wantAlert, got.Alert)
			assert.Equal(t, tt.wantTickets, got.TicketCount)
			assert.Len(t, got.Tickets, tt.wantTickets)
		})
	}
}

func TestPriceForm_MissingValue(t *testing.T) {
	c := startPlay(t, newTestServer(t))

	rec := c.do(http.MethodPut, "/plays/current/price", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPriceForm_TooManyTickets(t *testing.T) {
	_ = startPlay(t, newTestServer(t))

	tests := []struct {
		name       string
		price      string
		wantResult string
	}{
		{name: "over the cap", price: "101000", wantResult: "ok"},
		{name: "over the cap with change", price: "101500", wantResult: "has_change"},
		{name: "beyond int64", price: "100000000000000000000", wantResult: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := startPlay(t, newTestServer(t))

			c.do(http.MethodPut, "/plays/current/price", value(tt.price))
			rec := c.do(http.MethodPost, "/plays/current/price/submit", nil)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

			got := decode[response.PriceSubmitResponse](t, rec)
			assert.Equal(t, tt.wantResult, got.Result)
			assert.Equal(t, &response.Alert{Blocking: true, Message: domain.MsgTooManyTickets(100)}, got.Alert)
			assert.Zero(t, got.TicketCount)
			assert.Empty(t, got.Tickets)
		})
	}
}

func TestWinningNumberForm(t *testing.T) {
	c := startPlay(t, newTestServer(t))

	c.do(http.MethodPut, "/plays/current/price", value("2000"))
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/plays/current/price/submit", nil).Code)

	rec := c.do(http.MethodGet, "/plays/current/winning-number-form", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	form := decode[response.WinningNumberFormResponse](t, rec)
	require.Len(t, form.Fields, 7)
	assert.True(t, form.SubmitDisabled)
	assert.Equal(t, domain.BonusNumberInputName, form.Fields[6].Name)

	var last response.CheckStateResponse
	for i, v := range []string{"1", "2", "3", "4", "5", "6", "6"} {
		rec = c.do(http.MethodPut, "/plays/current/winning-numbers/"+itoa(i), value(v))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		last = decode[response.CheckStateResponse](t, rec)
	}
	assert.False(t, last.State.IsCompletedInput)
	assert.Equal(t, domain.MsgDuplicatedNumber, last.State.CheckMessage)
	assert.True(t, last.SubmitDisabled)

	rec = c.do(http.MethodPost, "/plays/current/winning-numbers/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[response.WinningNumberSubmitResponse](t, rec).Submitted)

	rec = c.do(http.MethodGet, "/plays/current/results", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPut, "/plays/current/winning-numbers/6", value("7"))
	require.Equal(t, http.StatusOK, rec.Code)
	last = decode[response.CheckStateResponse](t, rec)
	assert.True(t, last.State.IsCompletedInput)
	assert.False(t, last.SubmitDisabled)

	rec = c.do(http.MethodPost, "/plays/current/winning-numbers/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	submitted := decode[response.WinningNumberSubmitResponse](t, rec)
	assert.True(t, submitted.Submitted)
	assert.True(t, submitted.IsResultModalShow)
	assert.Equal(t, &domain.WinningNumber{Numbers: []int{1, 2, 3, 4, 5, 6}, BonusNumber: 7}, submitted.WinningNumber)

	rec = c.do(http.MethodGet, "/plays/current/results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode[response.ResultsResponse](t, rec)
	assert.Equal(t, *submitted.WinningNumber, results.WinningNumber)
	assert.Len(t, results.Results, 2)

	rec = c.do(http.MethodDelete, "/plays/current/result-modal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[domain.Play](t, rec).IsResultModalShow)
}

func TestWinningNumberForm_BadIndex(t *testing.T) {
	c := startPlay(t, newTestServer(t))

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/plays/current/winning-numbers/7", value("1")).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/plays/current/winning-numbers/x", value("1")).Code)
}

func TestRestartAndEndPlay(t *testing.T) {
	c := startPlay(t, newTestServer(t))
	c.do(http.MethodPut, "/plays/current/price", value("4000"))

	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/plays/current/price/submit", nil).Code)
	c.do(http.MethodPut, "/plays/current/winning-numbers/0", value("12"))

	rec := c.do(http.MethodPost, "/plays/current/restart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	restarted := decode[domain.Play](t, rec)
	assert.Empty(t, restarted.Price)
	assert.Empty(t, restarted.Tickets)
	assert.Equal(t, make([]string, 7), restarted.WinningInputs)

	rec = c.do(http.MethodGet, "/plays/current/winning-number-form", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[response.WinningNumberFormResponse](t, rec).SubmitDisabled)

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/plays/current", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/plays/current", nil).Code)
}

func TestLiveWinningNumbers(t *testing.T) {
	s := newTestServer(t)
	c := startPlay(t, s)

	srv := httptest.NewServer(s.Router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/plays/current/winning-numbers/live?token=" + c.token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	send := func(frame any) response.LiveFrame {
		require.NoError(t, conn.WriteJSON(frame))
		var got response.LiveFrame
		require.NoError(t, conn.ReadJSON(&got))
		return got
	}

	var got response.LiveFrame
	for i, v := range []string{"10", "20", "30", "40", "50"} {
		got = send(map[string]any{"index": i, "value": v})
	}
	require.Equal(t, "state", got.Type)
	assert.Equal(t, domain.MsgOutOfRangeBetween(1, 45), got.State.State.CheckMessage)

	got = send(map[string]any{"index": 4, "value": "41"})
	assert.Equal(t, domain.MsgBlankInput, got.State.State.CheckMessage)

	got = send(map[string]any{"index": 5, "value": "42"})
	got = send(map[string]any{"index": 6, "value": "43"})
	assert.True(t, got.State.State.IsCompletedInput)

	got = send(map[string]any{"index": 9, "value": "1"})
	assert.Equal(t, "error", got.Type)

	rec := c.do(http.MethodGet, "/plays/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"10", "20", "30", "40", "41", "42", "43"}, decode[domain.Play](t, rec).WinningInputs)
}

func itoa(i int) string {
	return string(rune('0' + i))
}
