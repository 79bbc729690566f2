package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/authz"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/session"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/usercount"
)

// fakeStore is an in-memory store.Store. Sessions and roles are keyed the
// same way the Postgres implementation keys them.
type fakeStore struct {
	users        map[string]models.User
	sessions     map[string]models.Session
	roles        map[string]models.RoleAssignment
	applications map[string]models.Application
	partners     map[string]models.PartnerServer
	subservers   map[string]models.SubServer
	profiles     map[string]models.Profile
	settings     *models.TeamSettings
	season       *models.ApplicationSeason

	loginFn func(ctx context.Context, email, password string) (models.Session, error)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[string]models.User{},
		sessions:     map[string]models.Session{},
		roles:        map[string]models.RoleAssignment{},
		applications: map[string]models.Application{},
		partners:     map[string]models.PartnerServer{},
		subservers:   map[string]models.SubServer{},
		profiles:     map[string]models.Profile{},
		season:       &models.ApplicationSeason{SeasonID: "s-1", Name: "Season 1", IsActive: true},
	}
}

func (f *fakeStore) CreateUser(ctx context.Context, input store.SignUpInput) (models.User, error) {
	for _, user := range f.users {
		if user.Email == input.Email {
			return models.User{}, store.ErrEmailTaken
		}
	}
	user := models.User{UserID: "user-" + input.Email, Email: input.Email, Created: time.Now()}
	f.users[user.UserID] = user
	f.profiles[user.UserID] = models.Profile{UserID: user.UserID}
	return user, nil
}

func (f *fakeStore) Login(ctx context.Context, email, password string) (models.Session, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	sess := models.Session{SessionID: "sess-" + email, UserID: "user-" + email, Email: email, ExpiresAt: time.Now().Add(time.Hour)}
	f.sessions[sess.SessionID] = sess
	return sess, nil
}

func (f *fakeStore) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	sess, ok := f.sessions[sessionID]
	if !ok {
		return models.Session{}, store.ErrSessionNotFound
	}
	return sess, nil
}

func (f *fakeStore) DeleteSession(ctx context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeStore) DeleteExpiredSessions(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func (f *fakeStore) GetRoleAssignment(ctx context.Context, userID string) (models.RoleAssignment, error) {
	assignment, ok := f.roles[userID]
	if !ok {
		return models.RoleAssignment{}, store.ErrNotFound
	}
	return assignment, nil
}

func (f *fakeStore) CreateRoleAssignment(ctx context.Context, userID, role string) (models.RoleAssignment, error) {
	if _, ok := f.roles[userID]; ok {
		return models.RoleAssignment{}, store.ErrDuplicate
	}
	assignment := models.RoleAssignment{ID: "a-" + userID, UserID: userID, Role: role, CreatedAt: time.Now()}
	f.roles[userID] = assignment
	return assignment, nil
}

func (f *fakeStore) DeleteRoleAssignment(ctx context.Context, userID string) error {
	if _, ok := f.roles[userID]; !ok {
		return store.ErrNotFound
	}
	delete(f.roles, userID)
	return nil
}

func (f *fakeStore) ListRoleAssignments(ctx context.Context) ([]models.RoleAssignment, error) {
	var assignments []models.RoleAssignment
	for _, assignment := range f.roles {
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

func (f *fakeStore) CreateApplication(ctx context.Context, input store.ApplicationInput) (models.Application, error) {
	app := models.Application{
		ID:     "app-" + input.UserID,
		UserID: input.UserID, SeasonID: f.season.SeasonID,
		Status: models.ApplicationPending, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	f.applications[app.ID] = app
	return app, nil
}

func (f *fakeStore) HasApplication(ctx context.Context, userID, seasonID string) (bool, error) {
	for _, app := range f.applications {
		if app.UserID == userID && app.SeasonID == seasonID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListApplications(ctx context.Context, status string) ([]models.Application, error) {
	var apps []models.Application
	for _, app := range f.applications {
		if status == "" || app.Status == status {
			apps = append(apps, app)
		}
	}
	return apps, nil
}

func (f *fakeStore) ListUserApplications(ctx context.Context, userID string) ([]models.ApplicationSummary, error) {
	var summaries []models.ApplicationSummary
	for _, app := range f.applications {
		if app.UserID == userID {
			summaries = append(summaries, models.ApplicationSummary{ID: app.ID, Status: app.Status})
		}
	}
	return summaries, nil
}

func (f *fakeStore) UpdateApplicationStatus(ctx context.Context, applicationID, status, notes string) error {
	app, ok := f.applications[applicationID]
	if !ok {
		return store.ErrNotFound
	}
	app.Status = status
	app.Notes = notes
	f.applications[applicationID] = app
	return nil
}

func (f *fakeStore) DeleteApplication(ctx context.Context, applicationID string) error {
	if _, ok := f.applications[applicationID]; !ok {
		return store.ErrNotFound
	}
	delete(f.applications, applicationID)
	return nil
}

func (f *fakeStore) GetActiveSeason(ctx context.Context) (models.ApplicationSeason, error) {
	if f.season == nil {
		return models.ApplicationSeason{}, store.ErrNoActiveSeason
	}
	return *f.season, nil
}

func (f *fakeStore) ListPartnerServers(ctx context.Context) ([]models.PartnerServer, error) {
	var partners []models.PartnerServer
	for _, partner := range f.partners {
		partners = append(partners, partner)
	}
	return partners, nil
}

func (f *fakeStore) CreatePartnerServer(ctx context.Context, partner models.PartnerServer) (models.PartnerServer, error) {
	partner.ID = "p-" + partner.Name
	f.partners[partner.ID] = partner
	return partner, nil
}

func (f *fakeStore) UpdatePartnerServer(ctx context.Context, partner models.PartnerServer) (models.PartnerServer, error) {
	if _, ok := f.partners[partner.ID]; !ok {
		return models.PartnerServer{}, store.ErrNotFound
	}
	f.partners[partner.ID] = partner
	return partner, nil
}

func (f *fakeStore) DeletePartnerServer(ctx context.Context, partnerID string) error {
	if _, ok := f.partners[partnerID]; !ok {
		return store.ErrNotFound
	}
	delete(f.partners, partnerID)
	return nil
}

func (f *fakeStore) ListSubServers(ctx context.Context) ([]models.SubServer, error) {
	var subs []models.SubServer
	for _, sub := range f.subservers {
		subs = append(subs, sub)
	}
	return subs, nil
}

func (f *fakeStore) CreateSubServer(ctx context.Context, sub models.SubServer) (models.SubServer, error) {
	sub.ID = "ss-" + sub.Name
	f.subservers[sub.ID] = sub
	return sub, nil
}

func (f *fakeStore) UpdateSubServer(ctx context.Context, sub models.SubServer) (models.SubServer, error) {
	if _, ok := f.subservers[sub.ID]; !ok {
		return models.SubServer{}, store.ErrNotFound
	}
	f.subservers[sub.ID] = sub
	return sub, nil
}

func (f *fakeStore) DeleteSubServer(ctx context.Context, subID string) error {
	if _, ok := f.subservers[subID]; !ok {
		return store.ErrNotFound
	}
	delete(f.subservers, subID)
	return nil
}

func (f *fakeStore) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return models.Profile{}, store.ErrNotFound
	}
	return profile, nil
}

func (f *fakeStore) UpdateProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	if _, ok := f.profiles[profile.UserID]; !ok {
		return models.Profile{}, store.ErrNotFound
	}
	f.profiles[profile.UserID] = profile
	return profile, nil
}

func (f *fakeStore) GetTeamSettings(ctx context.Context) (models.TeamSettings, error) {
	if f.settings == nil {
		return models.TeamSettings{}, store.ErrNotFound
	}
	return *f.settings, nil
}

func (f *fakeStore) UpsertTeamSettings(ctx context.Context, settings models.TeamSettings) (models.TeamSettings, error) {
	if settings.ID == "" {
		settings.ID = "ts-1"
	}
	f.settings = &settings
	return settings, nil
}

func (f *fakeStore) CountUsers(ctx context.Context) (int, error) { return len(f.users), nil }

func (f *fakeStore) CountProfiles(ctx context.Context) (int, error) { return len(f.profiles), nil }

type testEnv struct {
	store    *fakeStore
	sessions *session.Manager
	handler  http.Handler
}

func newTestEnv() *testEnv {
	st := newFakeStore()
	sessions := session.NewManager(st)
	resolver := authz.NewResolver(st)
	gate := authz.NewGate(st, resolver)
	counts := usercount.New(st.CountUsers, st.CountProfiles)
	handler := NewHandler(st, sessions, resolver, gate, counts)
	return &testEnv{
		store:    st,
		sessions: sessions,
		handler:  AuthMiddleware(sessions, handler.Routes()),
	}
}

// signIn seeds a session, optionally with an elevated role.
func (env *testEnv) signIn(t *testing.T, email, role string) models.Session {
	t.Helper()
	sess, err := env.sessions.SignIn(context.Background(), email, "pw")
	if err != nil {
		t.Fatalf("sign in %s: %v", email, err)
	}
	if role != "" && role != models.RoleNone {
		if _, err := env.store.CreateRoleAssignment(context.Background(), sess.UserID, role); err != nil {
			t.Fatalf("seed role: %v", err)
		}
	}
	return sess
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv()
	resp := doJSON(t, env.handler, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "member@example.com", "password": "secret12",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var result loginResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.SessionID == "" || result.Email != "member@example.com" {
		t.Fatalf("unexpected login response: %+v", result)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv()
	env.store.loginFn = func(ctx context.Context, email, password string) (models.Session, error) {
		return models.Session{}, store.ErrInvalidCredentials
	}
	resp := doJSON(t, env.handler, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "member@example.com", "password": "wrong",
	})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestSignupWeakPassword(t *testing.T) {
	env := newTestEnv()
	resp := doJSON(t, env.handler, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "new@example.com", "password": "short",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(env.store.users) != 0 {
		t.Fatal("weak password must not create a user")
	}
}

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv()
	resp := doJSON(t, env.handler, http.MethodGet, "/api/auth/me", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestMeReturnsRole(t *testing.T) {
	env := newTestEnv()
	sess := env.signIn(t, "admin@example.com", models.RoleAdmin)

	resp := doJSON(t, env.handler, http.MethodGet, "/api/auth/me", sess.SessionID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var result map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result["role"] != models.RoleAdmin {
		t.Fatalf("expected admin role, got %v", result["role"])
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	env := newTestEnv()
	sess := env.signIn(t, "member@example.com", "")

	resp := doJSON(t, env.handler, http.MethodPost, "/api/auth/logout", sess.SessionID, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	resp = doJSON(t, env.handler, http.MethodGet, "/api/auth/me", sess.SessionID, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.Code)
	}
}

func TestGrantRoleDeniedForNonAdmin(t *testing.T) {
	env := newTestEnv()
	sess := env.signIn(t, "mod@example.com", models.RoleModerator)

	resp := doJSON(t, env.handler, http.MethodPost, "/api/admin/roles", sess.SessionID, map[string]string{
		"user_id": "6a4f1f3e-50ec-4d1e-9b0d-3a1f9c9f6a21", "role": models.RoleAdmin,
	})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(env.store.roles) != 1 {
		t.Fatalf("denied grant must not write, roles=%v", env.store.roles)
	}
}

func TestGrantRoleByAdmin(t *testing.T) {
	env := newTestEnv()
	sess := env.signIn(t, "admin@example.com", models.RoleAdmin)

	target := "6a4f1f3e-50ec-4d1e-9b0d-3a1f9c9f6a21"
	resp := doJSON(t, env.handler, http.MethodPost, "/api/admin/roles", sess.SessionID, map[string]string{
		"user_id": target, "role": models.RoleModerator,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if assignment, ok := env.store.roles[target]; !ok || assignment.Role != models.RoleModerator {
		t.Fatalf("expected moderator assignment for target, got %v", env.store.roles)
	}
}

func TestApplicationSubmitAndDuplicate(t *testing.T) {
	env := newTestEnv()
	sess := env.signIn(t, "member@example.com", "")

	payload := map[string]interface{}{
		"discord_id": "d-1", "roblox_id": "r-1", "roblox_username": "member",
		"age": 16, "activity_level": 5,
		"rule_answers": map[string]string{
			"frp_understanding": "a", "vdm_understanding": "b", "taschen_rp_understanding": "c",
			"server_age_understanding": "d", "bodycam_understanding": "e",
			"friend_rule_violation": "f", "situation_handling": "g",
		},
	}
	resp := doJSON(t, env.handler, http.MethodPost, "/api/applications", sess.SessionID, payload)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, env.handler, http.MethodPost, "/api/applications", sess.SessionID, payload)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate, got %d", resp.Code)
	}
}

func TestApplicationListRequiresModerator(t *testing.T) {
	env := newTestEnv()
	sess := env.signIn(t, "member@example.com", "")

	resp := doJSON(t, env.handler, http.MethodGet, "/api/applications", sess.SessionID, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}

	mod := env.signIn(t, "mod@example.com", models.RoleModerator)
	resp = doJSON(t, env.handler, http.MethodGet, "/api/applications", mod.SessionID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for moderator, got %d", resp.Code)
	}
}

func TestPartnersPublic(t *testing.T) {
	env := newTestEnv()
	resp := doJSON(t, env.handler, http.MethodGet, "/api/partners", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestUserCountRequiresModerator(t *testing.T) {
	env := newTestEnv()
	sess := env.signIn(t, "member@example.com", "")
	resp := doJSON(t, env.handler, http.MethodGet, "/api/admin/stats/users", sess.SessionID, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}

	mod := env.signIn(t, "mod@example.com", models.RoleModerator)
	resp = doJSON(t, env.handler, http.MethodGet, "/api/admin/stats/users", mod.SessionID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var result usercount.CountResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode count: %v", err)
	}
	if result.Source != usercount.SourceAuthoritative {
		t.Fatalf("expected authoritative count, got %+v", result)
	}
}

func TestRouteGuardEndpoint(t *testing.T) {
	env := newTestEnv()
	resp := doJSON(t, env.handler, http.MethodGet, "/api/route-guard?path=/profile", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var decision RouteDecision
	if err := json.Unmarshal(resp.Body.Bytes(), &decision); err != nil {
		t.Fatalf("decode decision: %v", err)
	}
	if decision.Allowed || decision.RedirectTo != "/login" {
		t.Fatalf("expected redirect to /login, got %+v", decision)
	}

	sess := env.signIn(t, "member@example.com", "")
	resp = doJSON(t, env.handler, http.MethodGet, "/api/route-guard?path=/login", sess.SessionID, nil)
	if err := json.Unmarshal(resp.Body.Bytes(), &decision); err != nil {
		t.Fatalf("decode decision: %v", err)
	}
	if decision.Allowed || decision.RedirectTo != "/profile" {
		t.Fatalf("expected redirect to /profile, got %+v", decision)
	}
}

func TestTeamSettingsGateApplied(t *testing.T) {
	env := newTestEnv()
	mod := env.signIn(t, "mod@example.com", models.RoleModerator)

	payload := map[string]string{"meeting_day": "friday"}
	resp := doJSON(t, env.handler, http.MethodPut, "/api/admin/team-settings", mod.SessionID, payload)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for moderator, got %d", resp.Code)
	}
	if env.store.settings != nil {
		t.Fatal("denied update must not write settings")
	}

	admin := env.signIn(t, "admin@example.com", models.RoleAdmin)
	resp = doJSON(t, env.handler, http.MethodPut, "/api/admin/team-settings", admin.SessionID, payload)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", resp.Code, resp.Body.String())
	}
	if env.store.settings == nil || env.store.settings.MeetingDay != "friday" {
		t.Fatalf("expected settings stored, got %+v", env.store.settings)
	}
}
