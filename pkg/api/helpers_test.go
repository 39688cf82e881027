package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/potluckapp/potluck/pkg/auth"
	"github.com/potluckapp/potluck/pkg/recipes"
	"github.com/potluckapp/potluck/pkg/storage/storagetest"
)

const testPassword = "correct-horse-battery"

type testEnv struct {
	t      *testing.T
	server *Server
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithOptions(t, Options{})
}

func newTestEnvWithOptions(t *testing.T, opts Options) *testEnv {
	t.Helper()
	db := storagetest.NewDB(t)
	return &testEnv{t: t, server: NewServer(db, opts)}
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

// doAs issues a credential request with a per-caller source address so the
// per-IP limiter on signup/login keys each test user separately.
func (e *testEnv) doAs(ip, method, path string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", ip)
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dest))
}

// signup registers a user and logs in, returning the user ID and a token.
func (e *testEnv) signup(username string) (int64, string) {
	e.t.Helper()
	rr := e.doAs(username, http.MethodPost, "/auth/signup", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
	})
	require.Equal(e.t, http.StatusCreated, rr.Code, rr.Body.String())
	var user auth.User
	decode(e.t, rr, &user)

	rr = e.doAs(username, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": testPassword,
	})
	require.Equal(e.t, http.StatusOK, rr.Code, rr.Body.String())
	var login loginResponse
	decode(e.t, rr, &login)
	return user.ID, login.Token
}

// createGroup creates a group as the token's user and returns its ID.
func (e *testEnv) createGroup(token, name string, allowPowerUserEdit bool) int64 {
	e.t.Helper()
	rr := e.do(http.MethodPost, "/groups", token, map[string]interface{}{
		"name":                  name,
		"allow_power_user_edit": allowPowerUserEdit,
	})
	require.Equal(e.t, http.StatusCreated, rr.Code, rr.Body.String())
	var group struct {
		ID int64 `json:"id"`
	}
	decode(e.t, rr, &group)
	return group.ID
}

// addMember adds a user to a group with the given role, as the admin token.
func (e *testEnv) addMember(adminToken string, groupID, userID int64, role auth.Role) {
	e.t.Helper()
	rr := e.do(http.MethodPost, groupPath(groupID)+"/members", adminToken, map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})
	require.Equal(e.t, http.StatusCreated, rr.Code, rr.Body.String())
}

// createRecipe creates a published recipe through the API and returns its ID.
func (e *testEnv) createRecipe(token string, groupID int64, title string) int64 {
	e.t.Helper()
	rr := e.do(http.MethodPost, groupPath(groupID)+"/recipes", token, map[string]interface{}{
		"title":        title,
		"ingredients":  []string{"flour", "water"},
		"instructions": []string{"mix", "bake"},
	})
	require.Equal(e.t, http.StatusCreated, rr.Code, rr.Body.String())
	var recipe struct {
		ID int64 `json:"id"`
	}
	decode(e.t, rr, &recipe)
	return recipe.ID
}

// createDraft seeds a draft through the store the way the import pipeline
// does; the manual creation endpoint only produces published recipes.
func (e *testEnv) createDraft(userID, groupID int64, title string) int64 {
	e.t.Helper()
	recipe := &recipes.Recipe{
		GroupID:      groupID,
		CreatedBy:    userID,
		Title:        title,
		Ingredients:  []string{"flour", "water"},
		Instructions: []string{"mix", "bake"},
		Status:       recipes.StatusDraft,
	}
	require.NoError(e.t, e.server.recipes.CreateRecipe(context.Background(), recipe))
	return recipe.ID
}

func groupPath(groupID int64) string {
	return "/groups/" + itoa(groupID)
}

func recipePath(recipeID int64) string {
	return "/recipes/" + itoa(recipeID)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
