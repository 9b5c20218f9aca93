package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/tastefeed/internal/profile"
	"github.com/hrygo/tastefeed/server/service/recommend"
	"github.com/hrygo/tastefeed/store"
)

func newTestService(ms *recommend.MemoryStore) *APIV1Service {
	p := &profile.Profile{
		EmbeddingDim:  2,
		LearningRate:  0.1,
		CandidatePool: 500,
	}
	return &APIV1Service{
		Profile: p,
		Engine:  recommend.NewEngine(ms, p),
	}
}

func doRequest(t *testing.T, svc *APIV1Service, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	svc.RegisterRoutes(e)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterSwipeHandler(t *testing.T) {
	ms := recommend.NewMemoryStore()
	ms.AddItem(&store.Item{ID: 1, Embedding: []float32{1, 0}})
	svc := newTestService(ms)

	rec := doRequest(t, svc, http.MethodPost, "/api/v1/swipes", `{"user_id":7,"item_id":1,"liked":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp registerSwipeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.ProfileRefreshed)
	assert.Equal(t, 1, ms.FeedbackCount())
}

func TestRegisterSwipeHandlerMissingLiked(t *testing.T) {
	svc := newTestService(recommend.NewMemoryStore())

	rec := doRequest(t, svc, http.MethodPost, "/api/v1/swipes", `{"user_id":7,"item_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterSwipeHandlerInvalidUser(t *testing.T) {
	svc := newTestService(recommend.NewMemoryStore())

	rec := doRequest(t, svc, http.MethodPost, "/api/v1/swipes", `{"user_id":0,"item_id":1,"liked":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterSwipeHandlerMissingEmbeddingStillOK(t *testing.T) {
	// Feedback on an item with no embedding: the swipe is durable, the
	// profile refresh is deferred.
	svc := newTestService(recommend.NewMemoryStore())

	rec := doRequest(t, svc, http.MethodPost, "/api/v1/swipes", `{"user_id":7,"item_id":42,"liked":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp registerSwipeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.ProfileRefreshed)
}

func TestNextItemHandler(t *testing.T) {
	ms := recommend.NewMemoryStore()
	ms.AddItem(&store.Item{ID: 1, Name: "A", Embedding: []float32{1, 0}})
	ms.AddItem(&store.Item{ID: 2, Name: "B", Embedding: []float32{0, 1}})
	svc := newTestService(ms)

	// Build a taste for [1,0].
	rec := doRequest(t, svc, http.MethodPost, "/api/v1/swipes", `{"user_id":7,"item_id":1,"liked":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, svc, http.MethodGet, "/api/v1/feed/next?user_id=7", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp nextItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Item)
	// Item 1 is seen via the swipe; B is the only remaining candidate.
	assert.Equal(t, "B", resp.Item.Name)
}

func TestNextItemHandlerNoneAvailable(t *testing.T) {
	svc := newTestService(recommend.NewMemoryStore())

	rec := doRequest(t, svc, http.MethodGet, "/api/v1/feed/next?user_id=7", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp nextItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Item)
	assert.NotEmpty(t, resp.Message)
}

func TestNextItemHandlerMissingUserID(t *testing.T) {
	svc := newTestService(recommend.NewMemoryStore())

	rec := doRequest(t, svc, http.MethodGet, "/api/v1/feed/next", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
