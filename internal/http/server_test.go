package http

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"spendlog/internal/chat"
	"spendlog/internal/classifier"
	"spendlog/internal/core"
	"spendlog/internal/services"
	"spendlog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *storage.Repository) {
	t.Helper()
	repo, err := storage.NewRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	model := classifier.Train()
	svc := services.NewExpenseService(repo, model, nil)
	srv := NewServer(":0", repo, svc, chat.New(), Options{})
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, repo
}

func postForm(t *testing.T, srv *Server, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

// registerUser signs up a user and returns the session cookies.
func registerUser(t *testing.T, srv *Server, email string) []*http.Cookie {
	t.Helper()
	rr := postForm(t, srv, "/register", url.Values{
		"username": {"sam"},
		"email":    {email},
		"password": {"hunter2!"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rr.Code, "register should redirect: %s", rr.Body.String())

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies, "register should set a session cookie")
	return cookies
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
}

func TestIndexRedirectsWithoutSession(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv, _ := newTestServer(t)
	registerUser(t, srv, "sam@example.com")

	rr := postForm(t, srv, "/register", url.Values{
		"username": {"sam2"},
		"email":    {"sam@example.com"},
		"password": {"hunter2!"},
	}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "already registered")
}

func TestLoginWrongPassword(t *testing.T) {
	srv, _ := newTestServer(t)
	registerUser(t, srv, "sam@example.com")

	rr := postForm(t, srv, "/login", url.Values{
		"email":    {"sam@example.com"},
		"password": {"wrong"},
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid email or password")
}

func TestLoginThenIndex(t *testing.T) {
	srv, _ := newTestServer(t)
	registerUser(t, srv, "sam@example.com")

	rr := postForm(t, srv, "/login", url.Values{
		"email":    {"sam@example.com"},
		"password": {"hunter2!"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	page := httptest.NewRecorder()
	srv.Handler.ServeHTTP(page, req)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "sam")
}

func TestAddExpenseBadAmountDefaultsToZero(t *testing.T) {
	srv, repo := newTestServer(t)
	cookies := registerUser(t, srv, "sam@example.com")

	rr := postForm(t, srv, "/add", url.Values{
		"date":        {"2024-01-05"},
		"category":    {"Food"},
		"amount":      {"abc"},
		"description": {"lunch"},
	}, cookies)
	require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())

	user, err := repo.GetUserByEmail(context.Background(), "sam@example.com")
	require.NoError(t, err)
	expenses, err := repo.ListExpenses(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, 0.0, expenses[0].Amount)
}

func TestAddExpenseClassifiesEmptyCategory(t *testing.T) {
	srv, repo := newTestServer(t)
	cookies := registerUser(t, srv, "sam@example.com")

	rr := postForm(t, srv, "/add", url.Values{
		"date":        {"2024-01-05"},
		"amount":      {"12.50"},
		"description": {"dinner at the italian restaurant"},
	}, cookies)
	require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())

	user, err := repo.GetUserByEmail(context.Background(), "sam@example.com")
	require.NoError(t, err)
	expenses, err := repo.ListExpenses(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Food", expenses[0].Category)
}

func TestDeleteOnlyOwnExpense(t *testing.T) {
	srv, repo := newTestServer(t)
	cookies := registerUser(t, srv, "sam@example.com")
	otherCookies := registerUser(t, srv, "eve@example.com")

	sam, err := repo.GetUserByEmail(context.Background(), "sam@example.com")
	require.NoError(t, err)
	id, err := repo.CreateExpense(context.Background(), core.Expense{
		Date: "2024-01-05", Category: "Food", Amount: 10, UserID: sam.ID,
	})
	require.NoError(t, err)

	// Another user's delete silently changes nothing.
	rr := postForm(t, srv, "/expenses/delete", url.Values{"id": {"1"}}, otherCookies)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	_, err = repo.GetExpense(context.Background(), id)
	require.NoError(t, err)

	rr = postForm(t, srv, "/expenses/delete", url.Values{"id": {"1"}}, cookies)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	_, err = repo.GetExpense(context.Background(), id)
	assert.ErrorIs(t, err, storage.ErrExpenseNotFound)
}

func TestExportCSV(t *testing.T) {
	srv, repo := newTestServer(t)
	cookies := registerUser(t, srv, "sam@example.com")

	sam, err := repo.GetUserByEmail(context.Background(), "sam@example.com")
	require.NoError(t, err)
	for _, e := range []core.Expense{
		{Date: "2024-01-05", Category: "Food", Amount: 10, UserID: sam.ID},
		{Date: "2024-01-20", Category: "Food", Amount: 5, UserID: sam.ID},
		{Date: "2024-02-01", Category: "Travel", Amount: 100, UserID: sam.ID},
	} {
		_, err := repo.CreateExpense(context.Background(), e)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")

	records, err := csv.NewReader(rr.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header plus one row per expense")
	assert.Equal(t, []string{"id", "date", "category", "amount", "description", "user_id"}, records[0])
}

func TestChatMessage(t *testing.T) {
	srv, _ := newTestServer(t)
	cookies := registerUser(t, srv, "sam@example.com")

	body := strings.NewReader(`{"message": "hello there"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat/message", body)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp chatResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Contains(t, resp.Reply, "sam", "greeting should address the user by name")
}

func TestChatMessageRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "authentication required")
}

func TestRateLimitOnPosts(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.rateLimiter = newRateLimiter(2)

	form := url.Values{"email": {"x@example.com"}, "password": {"pw"}}
	for i := 0; i < 2; i++ {
		rr := postForm(t, srv, "/login", form, nil)
		require.NotEqual(t, http.StatusTooManyRequests, rr.Code)
	}
	rr := postForm(t, srv, "/login", form, nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
