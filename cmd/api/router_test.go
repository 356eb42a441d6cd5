package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	authrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/repository"
	authusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/usecase"
	boardrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/repository"
	boardusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/usecase"
	cardrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/repository"
	cardusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/usecase"
	commentrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/repository"
	commentusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/usecase"
	listrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/repository"
	listusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/usecase"
	notifdelivery "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/delivery"
	notifdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/notificationtest"
	subtaskrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/repository"
	subtaskusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/usecase"
	tagrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/repository"
	tagusecase "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/usecase"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/testutil"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/channel"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	rec    *notificationtest.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: 24 * time.Hour,
		FrontendBaseURL:  "https://app.example.com",
	}

	users := authrepo.NewUserRepository(db)
	tokens := authrepo.NewFCMTokenRepository(db)
	boards := boardrepo.NewBoardRepository(db)
	cards := cardrepo.NewCardRepository(db)
	lists := listrepo.NewListRepository(db)
	tags := tagrepo.NewTagRepository(db)
	comments := commentrepo.NewCommentRepository(db)
	subtasks := subtaskrepo.NewSubtaskRepository(db)

	svc, rec := notificationtest.NewService(t, db)
	pusherClient := channel.NewPusher(channel.Options{AppID: "1", Key: "app-key", Secret: "app-secret", Cluster: "mt1"})

	uc := Usecases{
		Auth:    authusecase.NewAuthUsecase(users, tokens, cfg),
		Board:   boardusecase.NewBoardUsecase(db, boards, users, tags, svc),
		Card:    cardusecase.NewCardUsecase(db, cards, boards, lists, users, tags, svc),
		List:    listusecase.NewListUsecase(db, lists, boards),
		Tag:     tagusecase.NewTagUsecase(tags),
		Comment: commentusecase.NewCommentUsecase(db, comments, cards, boards, svc),
		Subtask: subtaskusecase.NewSubtaskUsecase(db, subtasks, cards, boards, users, svc),
	}

	h := NewHandler(cfg, uc, notifdelivery.NewNotificationHandler(svc, pusherClient, nil))
	return &testServer{t: t, db: db, router: h.Router(), rec: rec}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register creates an account over HTTP and returns its id and access token.
func (s *testServer) register(firstName, email string) (uint, string) {
	s.t.Helper()

	w := s.do(http.MethodPost, "/auth/register", "", gin.H{
		"firstName": firstName,
		"lastName":  "Test",
		"email":     email,
		"password":  "secret123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID, resp.AccessToken
}

func decodeID(t *testing.T, w *httptest.ResponseRecorder) uint {
	t.Helper()
	var resp struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotZero(t, resp.ID)
	return resp.ID
}

func TestHealthAndAuthGate(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = s.do(http.MethodGet, "/board/getBoards", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/board/getBoards", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPrivateBoardVisibility(t *testing.T) {
	s := newTestServer(t)
	_, ownerToken := s.register("Ana", "ana@example.com")
	bobID, bobToken := s.register("Bob", "bob@example.com")
	_, carolToken := s.register("Carol", "carol@example.com")

	w := s.do(http.MethodPost, "/board/createBoard", ownerToken, gin.H{"name": "Roadmap"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	boardID := decodeID(t, w)
	path := fmt.Sprintf("/board/getBoard/%d", boardID)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, path, bobToken, nil).Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/board/addMember/%d", boardID), ownerToken, gin.H{"userId": bobID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, path, bobToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, path, carolToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/board/getBoard/9999", ownerToken, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/board/getBoard/abc", ownerToken, nil).Code)

	added := notificationtest.Stored(t, s.db, notifdomain.TypeBoardMemberAdded)
	require.Len(t, added, 1)
	assert.Equal(t, bobID, added[0].UserID)
}

func TestListNamesAreUniquePerBoard(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register("Ana", "ana@example.com")

	w := s.do(http.MethodPost, "/board/createBoard", token, gin.H{"name": "Sprint"})
	require.Equal(t, http.StatusCreated, w.Code)
	boardID := decodeID(t, w)

	w = s.do(http.MethodPost, "/list/create", token, gin.H{"boardId": boardID, "name": "To Do"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/list/create", token, gin.H{"boardId": boardID, "name": "to do"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/list/by-board/%d", boardID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lists struct {
		Items []map[string]interface{} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lists))
	assert.Len(t, lists.Items, 1)
}

func TestCardAssignmentNotifiesOnce(t *testing.T) {
	s := newTestServer(t)
	ownerID, ownerToken := s.register("Ana", "ana@example.com")
	bobID, _ := s.register("Bob", "bob@example.com")
	carolID, _ := s.register("Carol", "carol@example.com")

	w := s.do(http.MethodPost, "/board/createBoard", ownerToken, gin.H{"name": "Launch", "memberIds": []uint{bobID, carolID}})
	require.Equal(t, http.StatusCreated, w.Code)
	boardID := decodeID(t, w)

	w = s.do(http.MethodPost, "/card/createCard", ownerToken, gin.H{
		"title":         "Write release notes",
		"boardId":       boardID,
		"responsableId": bobID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cardID := decodeID(t, w)

	assigned := notificationtest.Stored(t, s.db, notifdomain.TypeCardAssigned)
	require.Len(t, assigned, 1)
	assert.Equal(t, bobID, assigned[0].UserID)
	assert.Equal(t, ownerID, *assigned[0].ActorID)
	assert.Equal(t, fmt.Sprintf("card:%d:assigned:%d", cardID, bobID), *assigned[0].EventID)

	var pushed int
	for _, p := range s.rec.Payloads() {
		if p.Type == notifdomain.TypeCardAssigned {
			pushed++
		}
	}
	assert.Equal(t, 1, pushed)

	// A retried reassignment carrying the same key is delivered once.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/card/updateCard/%d", cardID), strings.NewReader(fmt.Sprintf(`{"responsableId":%d}`, carolID)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+ownerToken)
		req.Header.Set("Idempotency-Key", "retry-1")
		rw := httptest.NewRecorder()
		s.router.ServeHTTP(rw, req)
		require.Equal(t, http.StatusOK, rw.Code, rw.Body.String())
	}
	assigned = notificationtest.Stored(t, s.db, notifdomain.TypeCardAssigned)
	require.Len(t, assigned, 2)
	assert.Equal(t, carolID, assigned[1].UserID)
	assert.Equal(t, fmt.Sprintf("card:%d:assigned:%d:key:retry-1", cardID, carolID), *assigned[1].EventID)
}

func TestCommentTombstoneOverHTTP(t *testing.T) {
	s := newTestServer(t)
	_, ownerToken := s.register("Ana", "ana@example.com")
	bobID, bobToken := s.register("Bob", "bob@example.com")

	w := s.do(http.MethodPost, "/board/createBoard", ownerToken, gin.H{"name": "Ops", "memberIds": []uint{bobID}})
	require.Equal(t, http.StatusCreated, w.Code)
	boardID := decodeID(t, w)

	w = s.do(http.MethodPost, "/card/createCard", ownerToken, gin.H{"title": "Rotate keys", "boardId": boardID})
	require.Equal(t, http.StatusCreated, w.Code)
	cardID := decodeID(t, w)

	w = s.do(http.MethodPost, "/comment/create", bobToken, gin.H{"cardId": cardID, "content": "done on staging"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	commentID := decodeID(t, w)

	w = s.do(http.MethodDelete, fmt.Sprintf("/comment/delete/%d", commentID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, fmt.Sprintf("/comment/list?cardId=%d", cardID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Items []struct {
			ID          uint    `json:"id"`
			Content     *string `json:"content"`
			Placeholder *string `json:"placeholder"`
			Deleted     bool    `json:"deleted"`
		} `json:"items"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, commentID, list.Items[0].ID)
	assert.True(t, list.Items[0].Deleted)
	assert.Nil(t, list.Items[0].Content)
	assert.NotNil(t, list.Items[0].Placeholder)
	assert.EqualValues(t, 1, list.Meta.Total)

	w = s.do(http.MethodGet, "/comment/list", bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPusherAuth(t *testing.T) {
	s := newTestServer(t)
	userID, token := s.register("Ana", "ana@example.com")

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/pusher/auth", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}

	w := post(url.Values{"channel_name": {channel.PrivateUserChannel(userID)}, "socket_id": {"1234.5678"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var signed struct {
		Auth string `json:"auth"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signed))
	assert.True(t, strings.HasPrefix(signed.Auth, "app-key:"))

	w = post(url.Values{"channel_name": {channel.PrivateUserChannel(userID + 1)}, "socket_id": {"1234.5678"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = post(url.Values{"channel_name": {channel.PrivateUserChannel(userID)}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationInbox(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register("Ana", "ana@example.com")

	w := s.do(http.MethodPost, "/realtime/notifications/test-push", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/realtime/notifications?unread=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inbox struct {
		Total  int64 `json:"total"`
		Unread int64 `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inbox))
	assert.EqualValues(t, 1, inbox.Total)
	assert.EqualValues(t, 1, inbox.Unread)

	w = s.do(http.MethodPost, "/realtime/notifications/mark-read", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated":1}`, w.Body.String())

	w = s.do(http.MethodGet, "/realtime/ws", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTestEmailOnlyReachesCaller(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register("Mallory", "mallory@example.com")

	w := s.do(http.MethodPost, "/realtime/notifications/test-email", token, gin.H{"to": "victim@elsewhere.org"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"email sent","to":"mallory@example.com"}`, w.Body.String())

	emails := s.rec.Emails()
	require.Len(t, emails, 1)
	assert.Equal(t, "mallory@example.com", emails[0].To)
}
