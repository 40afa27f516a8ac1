package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"chirp/internal/auth"
	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/repository"
	"chirp/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer builds a Server over an in-memory database with the full
// route table. Redis is absent so caching and throttling degrade to no-ops.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTSecret: "test_secret", Env: "test"}
	sessions, err := auth.NewSessionCodec(cfg.JWTSecret)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	tweetRepo := repository.NewTweetRepository(db)

	s := &Server{
		config:       cfg,
		db:           db,
		sessions:     sessions,
		userRepo:     userRepo,
		tweetRepo:    tweetRepo,
		replyRepo:    repository.NewReplyRepository(db),
		favoriteRepo: repository.NewFavoriteRepository(db),
		followRepo:   repository.NewFollowRepository(db),
	}
	s.userService = service.NewUserService(userRepo)
	s.relationships = service.NewRelationshipService(
		userRepo, tweetRepo, s.favoriteRepo, s.followRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// signUp registers a user through the API and returns the session cookie.
func signUp(t *testing.T, app *fiber.App, userName string) *http.Cookie {
	t.Helper()

	resp := request(t, app, http.MethodPost, "/sign-up", map[string]string{
		"firstName": "Test",
		"lastName":  "User",
		"userName":  userName,
		"email":     fmt.Sprintf("%s@example.com", userName),
		"password":  "password1",
		"birthdate": "2000-01-15",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, ck := range resp.Cookies() {
		if ck.Name == auth.SessionCookieName {
			return ck
		}
	}
	t.Fatal("sign-up did not set a session cookie")
	return nil
}

func request(t *testing.T, app *fiber.App, method, path string, body any, cookie *http.Cookie) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestAuthGate(t *testing.T) {
	_, app := newTestServer(t)

	t.Run("No Cookie", func(t *testing.T) {
		resp := request(t, app, http.MethodGet, "/tweets", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid Request - Please login", body["message"])
	})

	t.Run("Garbage Cookie", func(t *testing.T) {
		ck := &http.Cookie{Name: auth.SessionCookieName, Value: "not-a-token"}
		resp := request(t, app, http.MethodGet, "/tweets", nil, ck)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid Request - Please login", body["message"])
	})

	t.Run("Expired Token Treated As Absent", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "1",
			"iss": "chirp-api",
			"aud": "chirp-client",
			"exp": time.Now().Add(-time.Hour).Unix(),
			"iat": time.Now().Add(-25 * time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test_secret"))
		require.NoError(t, err)

		ck := &http.Cookie{Name: auth.SessionCookieName, Value: signed}
		resp := request(t, app, http.MethodGet, "/tweets", nil, ck)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid Request - Please login", body["message"])
	})

	t.Run("Valid Cookie", func(t *testing.T) {
		ck := signUp(t, app, "gatekeeper")
		resp := request(t, app, http.MethodGet, "/tweets", nil, ck)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestMeRoundTrip(t *testing.T) {
	_, app := newTestServer(t)
	ck := signUp(t, app, "alice")

	resp := request(t, app, http.MethodGet, "/me", nil, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", user["userName"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "id")
}

func TestSignUpStoresNoUserWhenUnderage(t *testing.T) {
	s, app := newTestServer(t)

	resp := request(t, app, http.MethodPost, "/sign-up", map[string]string{
		"firstName": "Kid",
		"lastName":  "User",
		"userName":  "kiddo",
		"email":     "kiddo@example.com",
		"password":  "password1",
		"birthdate": time.Now().AddDate(-17, 0, 0).Format("2006-01-02"),
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var count int64
	s.db.Table("users").Where("user_name = ?", "kiddo").Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCreateTweet_ContentBounds(t *testing.T) {
	_, app := newTestServer(t)
	ck := signUp(t, app, "poster")

	t.Run("Too Long", func(t *testing.T) {
		resp := request(t, app, http.MethodPost, "/tweets", map[string]string{
			"content": strings.Repeat("a", 281),
		}, ck)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		errs, ok := body["errors"].([]any)
		require.True(t, ok)
		require.Len(t, errs, 1)
		first := errs[0].(map[string]any)
		assert.Equal(t, "content", first["field"])
	})

	t.Run("Valid", func(t *testing.T) {
		resp := request(t, app, http.MethodPost, "/tweets", map[string]string{
			"content": "hello world",
		}, ck)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Tweet successfully posted", body["message"])
	})
}

func TestTieredTweetVisibility(t *testing.T) {
	_, app := newTestServer(t)

	bob := signUp(t, app, "bob")
	resp := request(t, app, http.MethodPost, "/tweets", map[string]string{
		"content": "bob's tweet",
	}, bob)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("Unauthenticated Sees Restricted Profile", func(t *testing.T) {
		resp := request(t, app, http.MethodGet, "/tweets/bob", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.NotContains(t, body, "tweets")
		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "bob", user["userName"])
		assert.Len(t, user, 2) // userName and bio only
	})

	t.Run("Invalid Cookie Sees Restricted Profile", func(t *testing.T) {
		ck := &http.Cookie{Name: auth.SessionCookieName, Value: "garbage"}
		resp := request(t, app, http.MethodGet, "/tweets/bob", nil, ck)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.NotContains(t, body, "tweets")
	})

	t.Run("Authenticated Sees Tweets", func(t *testing.T) {
		alice := signUp(t, app, "alice2")
		resp := request(t, app, http.MethodGet, "/tweets/bob", nil, alice)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		tweets, ok := body["tweets"].([]any)
		require.True(t, ok)
		assert.Len(t, tweets, 1)
	})

	t.Run("Unknown Target", func(t *testing.T) {
		resp := request(t, app, http.MethodGet, "/tweets/nobody", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestFavoriteToggleScenario(t *testing.T) {
	_, app := newTestServer(t)
	ck := signUp(t, app, "faver")

	resp := request(t, app, http.MethodPost, "/tweets", map[string]string{
		"content": "favorite me",
	}, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decodeBody(t, resp)
	tweet := created["tweet"].(map[string]any)
	tweetID := strconv.Itoa(int(tweet["id"].(float64)))

	resp = request(t, app, http.MethodPut, "/tweets/"+tweetID+"/favorite", nil, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Tweet successfully added to favorites", body["message"])

	resp = request(t, app, http.MethodPut, "/tweets/"+tweetID+"/favorite", nil, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Tweet successfully removed from favorites", body["message"])

	resp = request(t, app, http.MethodGet, "/myfavorites", nil, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	favorites, _ := body["favorites"].([]any)
	assert.Empty(t, favorites)
}

func TestFavoriteUnknownTweet(t *testing.T) {
	_, app := newTestServer(t)
	ck := signUp(t, app, "faver")

	resp := request(t, app, http.MethodPut, "/tweets/9999/favorite", nil, ck)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFollowToggleScenario(t *testing.T) {
	_, app := newTestServer(t)
	alice := signUp(t, app, "alice")
	signUp(t, app, "bob")

	resp := request(t, app, http.MethodPut, "/bob/follow", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Successfully followed user", body["message"])

	resp = request(t, app, http.MethodGet, "/usersifollow", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	following, ok := body["following"].([]any)
	require.True(t, ok)
	assert.Len(t, following, 1)

	resp = request(t, app, http.MethodPut, "/bob/follow", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Successfully unfollowed user", body["message"])
}

func TestSelfFollowRejected(t *testing.T) {
	_, app := newTestServer(t)
	alice := signUp(t, app, "alice")

	resp := request(t, app, http.MethodPut, "/alice/follow", nil, alice)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "You cannot follow yourself", body["message"])

	resp = request(t, app, http.MethodGet, "/usersifollow", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	following, _ := body["following"].([]any)
	assert.Empty(t, following)
}

func TestFollowUnknownUser(t *testing.T) {
	_, app := newTestServer(t)
	alice := signUp(t, app, "alice")

	resp := request(t, app, http.MethodPut, "/nobody/follow", nil, alice)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Invalid Request - User does not exist", body["message"])
}

func TestFollowingListCapForAnonymousViewer(t *testing.T) {
	_, app := newTestServer(t)
	alice := signUp(t, app, "alice")

	for i := 0; i < service.AnonymousEdgeLimit+3; i++ {
		name := fmt.Sprintf("user%d", i)
		signUp(t, app, name)
		resp := request(t, app, http.MethodPut, "/"+name+"/follow", nil, alice)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := request(t, app, http.MethodGet, "/following/alice", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	following, ok := body["following"].([]any)
	require.True(t, ok)
	assert.Len(t, following, service.AnonymousEdgeLimit)

	resp = request(t, app, http.MethodGet, "/following/alice", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	following, ok = body["following"].([]any)
	require.True(t, ok)
	assert.Len(t, following, service.AnonymousEdgeLimit+3)
}

func TestDeleteTweet_OwnerOnly(t *testing.T) {
	_, app := newTestServer(t)
	owner := signUp(t, app, "owner")
	intruder := signUp(t, app, "intruder")

	resp := request(t, app, http.MethodPost, "/tweets", map[string]string{
		"content": "mine",
	}, owner)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decodeBody(t, resp)
	tweet := created["tweet"].(map[string]any)
	tweetID := strconv.Itoa(int(tweet["id"].(float64)))

	resp = request(t, app, http.MethodDelete, "/tweets/"+tweetID, nil, intruder)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = request(t, app, http.MethodDelete, "/tweets/"+tweetID, nil, owner)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, app, http.MethodDelete, "/tweets/"+tweetID, nil, owner)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReplyFlow(t *testing.T) {
	_, app := newTestServer(t)
	ck := signUp(t, app, "replier")

	resp := request(t, app, http.MethodPost, "/tweets", map[string]string{
		"content": "parent",
	}, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decodeBody(t, resp)
	tweet := created["tweet"].(map[string]any)
	tweetID := strconv.Itoa(int(tweet["id"].(float64)))

	resp = request(t, app, http.MethodPost, "/tweets/"+tweetID+"/reply", map[string]string{
		"content": "child",
	}, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Tweet successfully replied to", body["message"])

	resp = request(t, app, http.MethodPost, "/tweets/9999/reply", map[string]string{
		"content": "orphan",
	}, ck)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = request(t, app, http.MethodGet, "/myreplies", nil, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	replies, ok := body["replies"].([]any)
	require.True(t, ok)
	assert.Len(t, replies, 1)

	resp = request(t, app, http.MethodGet, "/tweetsandreplies", nil, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	tweets, ok := body["tweetsAndReplies"].([]any)
	require.True(t, ok)
	require.Len(t, tweets, 1)
	withReplies := tweets[0].(map[string]any)
	assert.Len(t, withReplies["replies"], 1)
}

func TestSignInUserName(t *testing.T) {
	_, app := newTestServer(t)
	signUp(t, app, "carol")

	resp := request(t, app, http.MethodPost, "/sign-in/username", map[string]string{
		"userName": "carol",
		"password": "password1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Welcome", body["message"])

	resp = request(t, app, http.MethodPost, "/sign-in/username", map[string]string{
		"userName": "carol",
		"password": "wrongwrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Invalid Username or Password", body["message"])
}

func TestEditProfile(t *testing.T) {
	_, app := newTestServer(t)
	ck := signUp(t, app, "editor")

	resp := request(t, app, http.MethodPut, "/edit-profile", map[string]string{
		"bio": "new bio",
	}, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	assert.Equal(t, "new bio", user["bio"])

	// Password change takes effect on the next sign-in.
	resp = request(t, app, http.MethodPut, "/edit-profile", map[string]string{
		"password": "password2",
	}, ck)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = request(t, app, http.MethodPost, "/sign-in/username", map[string]string{
		"userName": "editor",
		"password": "password2",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
