package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"roombooking/internal/database"
	"roombooking/internal/domain/auth"
	"roombooking/internal/domain/catalog"
	"roombooking/internal/events"
	"roombooking/internal/lock"
	"roombooking/internal/pkg/jwt"
)

// recorder keeps published events in memory.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type testApp struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	jwt    *jwt.Service
	events *recorder
	roomID string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	ctx := context.Background()
	_, err = catalog.NewService(catalog.NewRoomRepository(db)).Seed(ctx, catalog.DefaultRooms())
	require.NoError(t, err)

	rooms, err := catalog.NewRoomRepository(db).GetAll(ctx)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, auth.NewUserRepository(db).Create(ctx, &auth.User{
		ID: "admin-1", Name: "Pastor", Email: "admin@church.org", PasswordHash: string(hash), Role: auth.RoleAdmin,
	}))

	app := &testApp{t: t, db: db, jwt: jwt.New("test-secret", time.Hour), events: &recorder{}, roomID: rooms[0].ID}
	app.router = NewRouter(Deps{
		DB:                    db,
		JWT:                   app.jwt,
		BcryptCost:            bcrypt.MinCost,
		Locker:                lock.NewKeyed(),
		Publisher:             app.events,
		ReservationsAdminOnly: true,
	})
	return app
}

func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) register(name, email string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": name, "email": email, "password": "secret123"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token
}

func (a *testApp) login(email, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token
}

type reservationBody struct {
	Message     string `json:"message"`
	Reservation struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		Date      string `json:"date"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
		Room      *struct {
			Name string `json:"name"`
		} `json:"room"`
		User *struct {
			Email string `json:"email"`
		} `json:"user"`
	} `json:"reservation"`
	Conflict *struct {
		Date      string `json:"date"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
	} `json:"conflict"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) reservationBody {
	t.Helper()
	var b reservationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b), w.Body.String())
	return b
}

func TestReservationLifecycle(t *testing.T) {
	app := newTestApp(t)
	alice := app.register("Alice", "alice@church.org")
	bob := app.register("Bob", "bob@church.org")
	admin := app.login("admin@church.org", "admin-pass")

	// A books 09:00-10:00.
	w := app.do(http.MethodPost, "/api/reservations", alice, gin.H{
		"room": app.roomID, "date": "2024-01-10", "startTime": "09:00", "endTime": "10:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	a := decode(t, w)
	assert.Equal(t, "Reservation created successfully", a.Message)
	assert.Equal(t, "pending", a.Reservation.Status)
	assert.Equal(t, "2024-01-10", a.Reservation.Date)

	// B overlaps A.
	bWindow := gin.H{"room": app.roomID, "date": "2024-01-10", "startTime": "09:30", "endTime": "10:30"}
	w = app.do(http.MethodPost, "/api/reservations", bob, bWindow)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	b := decode(t, w)
	assert.Equal(t, "This room is not available at this time", b.Message)
	require.NotNil(t, b.Conflict)
	assert.Equal(t, "2024-01-10", b.Conflict.Date)
	assert.Equal(t, "09:00", b.Conflict.StartTime)
	assert.Equal(t, "10:00", b.Conflict.EndTime)

	// A touching window is fine.
	w = app.do(http.MethodPost, "/api/reservations", bob, gin.H{
		"room": app.roomID, "date": "2024-01-10", "startTime": "10:30", "endTime": "11:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Servants cannot decide.
	w = app.do(http.MethodPatch, "/api/reservations/"+a.Reservation.ID+"/status", alice, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin rejects A.
	w = app.do(http.MethodPatch, "/api/reservations/"+a.Reservation.ID+"/status", admin, gin.H{"status": "rejected"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "rejected", decode(t, w).Reservation.Status)

	// B's window is now free.
	w = app.do(http.MethodPost, "/api/reservations", bob, bWindow)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, []events.Type{
		events.ReservationCreated,
		events.ReservationCreated,
		events.ReservationStatusChanged,
		events.ReservationCreated,
	}, app.events.types())
}

func TestReservationReads(t *testing.T) {
	app := newTestApp(t)
	alice := app.register("Alice", "alice@church.org")
	bob := app.register("Bob", "bob@church.org")
	admin := app.login("admin@church.org", "admin-pass")

	for _, d := range []string{"2024-01-10", "2024-01-12"} {
		w := app.do(http.MethodPost, "/api/reservations", alice, gin.H{
			"room": app.roomID, "date": d, "startTime": "09:00", "endTime": "10:00",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := app.do(http.MethodGet, "/api/reservations/my", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine struct {
		Reservations []struct {
			ID   string          `json:"id"`
			Date string          `json:"date"`
			Room json.RawMessage `json:"room"`
			User json.RawMessage `json:"user"`
		} `json:"reservations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine.Reservations, 2)
	assert.Equal(t, "2024-01-12", mine.Reservations[0].Date)
	assert.Contains(t, string(mine.Reservations[0].Room), "Choir Practice Room")
	assert.Empty(t, mine.Reservations[0].User)

	w = app.do(http.MethodGet, "/api/reservations/my", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reservations":[]}`, w.Body.String())

	w = app.do(http.MethodGet, "/api/reservations", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(http.MethodGet, "/api/reservations", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@church.org")

	w = app.do(http.MethodGet, "/api/reservations/"+mine.Reservations[0].ID, bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	require.NotNil(t, got.Reservation.User)
	assert.Equal(t, "alice@church.org", got.Reservation.User.Email)
	require.NotNil(t, got.Reservation.Room)

	w = app.do(http.MethodGet, "/api/reservations/does-not-exist", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Reservation not found"}`, w.Body.String())
}

func TestReservationCancel(t *testing.T) {
	app := newTestApp(t)
	alice := app.register("Alice", "alice@church.org")
	bob := app.register("Bob", "bob@church.org")
	admin := app.login("admin@church.org", "admin-pass")

	w := app.do(http.MethodPost, "/api/reservations", alice, gin.H{
		"room": app.roomID, "date": "2024-01-10", "startTime": "09:00", "endTime": "10:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w).Reservation.ID

	w = app.do(http.MethodPatch, "/api/reservations/"+id+"/status", admin, gin.H{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodDelete, "/api/reservations/"+id, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"Not authorized to cancel this reservation"}`, w.Body.String())

	// Approved reservations can still be cancelled by their owner.
	w = app.do(http.MethodDelete, "/api/reservations/"+id, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Reservation cancelled successfully"}`, w.Body.String())

	w = app.do(http.MethodDelete, "/api/reservations/"+id, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, app.events.types(), events.ReservationCancelled)
}

func TestReservationValidationErrors(t *testing.T) {
	app := newTestApp(t)
	alice := app.register("Alice", "alice@church.org")
	admin := app.login("admin@church.org", "admin-pass")

	cases := []struct {
		name string
		body gin.H
		code int
		msg  string
	}{
		{"missing field", gin.H{"room": app.roomID, "date": "2024-01-10", "startTime": "09:00"}, http.StatusBadRequest, "Please provide all fields"},
		{"reversed window", gin.H{"room": app.roomID, "date": "2024-01-10", "startTime": "10:00", "endTime": "09:00"}, http.StatusBadRequest, "End time must be after start time"},
		{"bad clock", gin.H{"room": app.roomID, "date": "2024-01-10", "startTime": "9am", "endTime": "10:00"}, http.StatusBadRequest, "Invalid time format, expected HH:MM"},
		{"bad date", gin.H{"room": app.roomID, "date": "soon", "startTime": "09:00", "endTime": "10:00"}, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD"},
		{"unknown room", gin.H{"room": "nope", "date": "2024-01-10", "startTime": "09:00", "endTime": "10:00"}, http.StatusNotFound, "Room not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := app.do(http.MethodPost, "/api/reservations", alice, tc.body)
			assert.Equal(t, tc.code, w.Code)
			assert.JSONEq(t, `{"message":"`+tc.msg+`"}`, w.Body.String())
		})
	}

	w := app.do(http.MethodPatch, "/api/reservations/whatever/status", admin, gin.H{"status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid status value"}`, w.Body.String())

	w = app.do(http.MethodPatch, "/api/reservations/whatever/status", admin, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthAndHealth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/api/reservations/my", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := app.register("Alice", "alice@church.org")
	w = app.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": "Alice", "email": "alice@church.org", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@church.org")
	assert.NotContains(t, w.Body.String(), "password")

	w = app.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@church.org", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConcurrentCreatesAdmitOnlyOne(t *testing.T) {
	app := newTestApp(t)
	tokens := make([]string, 8)
	for i := range tokens {
		tokens[i] = app.register("User", "user"+string(rune('a'+i))+"@church.org")
	}

	var wg sync.WaitGroup
	codes := make([]int, len(tokens))
	for i, tok := range tokens {
		wg.Add(1)
		go func(i int, tok string) {
			defer wg.Done()
			w := app.do(http.MethodPost, "/api/reservations", tok, gin.H{
				"room": app.roomID, "date": "2024-03-01", "startTime": "18:00", "endTime": "19:00",
			})
			codes[i] = w.Code
		}(i, tok)
	}
	wg.Wait()

	created := 0
	for _, c := range codes {
		if c == http.StatusCreated {
			created++
		} else {
			assert.Equal(t, http.StatusConflict, c)
		}
	}
	assert.Equal(t, 1, created)
}

func TestUserManagement(t *testing.T) {
	app := newTestApp(t)
	admin := app.login("admin@church.org", "admin-pass")
	servant := app.register("Alice", "alice@church.org")

	w := app.do(http.MethodGet, "/api/users", servant, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(http.MethodPost, "/api/users", admin, gin.H{
		"name": "Deacon", "email": "deacon@church.org", "password": "secret123", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		User struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "admin", created.User.Role)

	// new admin can log in and manage
	deacon := app.login("deacon@church.org", "secret123")
	w = app.do(http.MethodGet, "/api/users", deacon, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Users []struct {
			Email string `json:"email"`
		} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Users, 3)

	w = app.do(http.MethodPut, "/api/users/"+created.User.ID, admin, gin.H{"role": "servant"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"role":"servant"`)

	w = app.do(http.MethodPut, "/api/users/"+created.User.ID, admin, gin.H{"role": "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodGet, "/api/users/missing", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodDelete, "/api/users/admin-1", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodDelete, "/api/users/"+created.User.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User removed")

	w = app.do(http.MethodDelete, "/api/users/"+created.User.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTokensFollowStoredAccount(t *testing.T) {
	app := newTestApp(t)
	admin := app.login("admin@church.org", "admin-pass")

	w := app.do(http.MethodPost, "/api/users", admin, gin.H{
		"name": "Deacon", "email": "deacon@church.org", "password": "secret123", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	deacon := app.login("deacon@church.org", "secret123")

	w = app.do(http.MethodGet, "/api/users", deacon, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// demotion applies to the token already issued
	w = app.do(http.MethodPut, "/api/users/"+created.User.ID, admin, gin.H{"role": "servant"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = app.do(http.MethodGet, "/api/users", deacon, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(http.MethodGet, "/api/reservations", deacon, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// deleted accounts cannot act at all
	w = app.do(http.MethodDelete, "/api/users/"+created.User.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = app.do(http.MethodPost, "/api/reservations", deacon, gin.H{
		"room": app.roomID, "date": "2024-02-01", "startTime": "09:00", "endTime": "10:00",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")

	var n int64
	require.NoError(t, app.db.Table("reservations").Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestAdminCannotChangeOwnRole(t *testing.T) {
	app := newTestApp(t)
	admin := app.login("admin@church.org", "admin-pass")

	w := app.do(http.MethodPut, "/api/users/admin-1", admin, gin.H{"role": "servant"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "own role")

	w = app.do(http.MethodGet, "/api/users", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}
