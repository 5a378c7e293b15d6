package trip

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/jalanjalan-ai/trip-planner/app/middleware"
	"github.com/jalanjalan-ai/trip-planner/internal/types"
)

// MockTripService is a mock implementation of Service
type MockTripService struct {
	mock.Mock
}

func (m *MockTripService) HandleTurn(ctx context.Context, sessionKey, message string) (*types.ChatResponse, error) {
	args := m.Called(ctx, sessionKey, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ChatResponse), args.Error(1)
}

// setupChatHandlerTest wires the handler behind the session middleware the way
// the router does, so the session key resolution is part of the test surface.
func setupChatHandlerTest() (http.Handler, *MockTripService) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockService := new(MockTripService)
	handler := NewHandlerImpl(mockService, logger)
	wrapped := appMiddleware.SessionKey(nil, logger)(http.HandlerFunc(handler.Chat))
	return wrapped, mockService
}

func postChat(handler http.Handler, sessionID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestChatHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()
		mockService.On("HandleTurn", mock.Anything, "sess-1", "Let's create a trip").
			Return(&types.ChatResponse{
				Reply:   "Great! Let's plan your weekend trip. Select your budget:",
				Options: []types.ReplyOption{{Kind: types.KindBudget, Value: "low", Label: "Low"}},
			}, nil).Once()

		rr := postChat(handler, "sess-1", `{"message": "Let's create a trip"}`)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp types.ChatResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Contains(t, resp.Reply, "Select your budget")
		require.Len(t, resp.Options, 1)
		assert.Equal(t, types.KindBudget, resp.Options[0].Kind)
		mockService.AssertExpectations(t)
	})

	t.Run("missing session header mints one", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()
		mockService.On("HandleTurn", mock.Anything, mock.AnythingOfType("string"), "hello").
			Return(&types.ChatResponse{Reply: "hi"}, nil).Once()

		rr := postChat(handler, "", `{"message": "hello"}`)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("X-Session-ID"))
		mockService.AssertExpectations(t)
	})

	t.Run("empty message", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()

		rr := postChat(handler, "sess-1", `{"message": "   "}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "HandleTurn", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()

		rr := postChat(handler, "sess-1", `{"message": `)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "HandleTurn", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("generation unavailable maps to bad gateway", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()
		mockService.On("HandleTurn", mock.Anything, "sess-1", "go").
			Return(nil, ErrGenerationUnavailable).Once()

		rr := postChat(handler, "sess-1", `{"message": "go"}`)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "Internal error, please try again.")
		mockService.AssertExpectations(t)
	})

	t.Run("other service errors map to internal error", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()
		mockService.On("HandleTurn", mock.Anything, "sess-1", "go").
			Return(nil, assert.AnError).Once()

		rr := postChat(handler, "sess-1", `{"message": "go"}`)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockService.AssertExpectations(t)
	})
}
