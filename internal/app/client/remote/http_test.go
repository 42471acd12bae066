package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clubmembers/internal/domain/member"
	"clubmembers/internal/domain/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newGateway(t *testing.T, mux *http.ServeMux) (*HTTPGateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewHTTPGateway(srv.URL, srv.Client(), staticToken("tok"), slog.Default()), srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestHTTPGateway_FetchMembers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/members", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "true", r.URL.Query().Get("only_live"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "name": "Ann", "updated_at": "2024-01-02T10:00:00.5Z", "expiration": "2024-06-01", "uid": "u", "is_deleted": false},
			{"id": 2, "name": "Broken", "updated_at": "yesterday", "is_deleted": false},
			{"id": 3, "name": "Local", "updated_at": "2024-01-02 10:00:00", "is_deleted": false},
		})
	})
	g, _ := newGateway(t, mux)

	snap, err := g.FetchMembers(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, []int64{2}, snap.Skipped)
	members := snap.Members
	require.Len(t, members, 2, "malformed record is skipped")
	assert.Equal(t, int64(1), members[0].ID)
	assert.Equal(t, "2024-06-01", member.FormatDate(*members[0].Expiration))
	assert.Nil(t, members[0].PaymentAmount)
	assert.Equal(t, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), members[1].UpdatedAt)
}

func TestHTTPGateway_UpsertMember_DropsPaymentAmount(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/members/5", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, body)
	})
	g, _ := newGateway(t, mux)

	amount := 30.0
	uid := "uid-1"
	err := g.UpsertMember(context.Background(), member.Member{
		ID: 5, Name: "Ann", PaymentAmount: &amount, UID: &uid,
		UpdatedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "Ann", body["name"])
	assert.Equal(t, "uid-1", body["uid"])
	assert.NotContains(t, body, "payment_amount")
	assert.NotContains(t, body, "paymentAmount")
}

func TestHTTPGateway_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantErr error
		wantMsg string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: map[string]string{"error": "Unauthorized"}, wantErr: ErrUnauthorized, wantMsg: "Unauthorized"},
		{name: "forbidden problem", status: http.StatusForbidden, body: map[string]any{"title": "Forbidden", "detail": "record belongs to another owner"}, wantErr: ErrForbidden, wantMsg: "another owner"},
		{name: "not found", status: http.StatusNotFound, body: map[string]any{}, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("DELETE /api/v1/members/9", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			g, _ := newGateway(t, mux)

			err := g.DeleteMember(context.Background(), 9)

			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}

	t.Run("server error has no sentinel", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("DELETE /api/v1/members/9", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		g, _ := newGateway(t, mux)

		err := g.DeleteMember(context.Background(), 9)

		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusBadGateway, se.Status)
		assert.NotErrorIs(t, err, ErrUnauthorized)
	})
}

func TestHTTPGateway_Payments(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/members/5/payments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "created_at": "2024-01-01T00:00:00Z", "amount": 10, "member_id": 5},
			{"id": 2, "created_at": "2024-02-01T00:00:00Z", "amount": 20, "member_id": 5},
		})
	})
	mux.HandleFunc("POST /api/v1/payments", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.NotContains(t, in, "id")
		writeJSON(w, http.StatusCreated, map[string]any{
			"id": 3, "created_at": "2024-03-01T00:00:00Z", "amount": in["amount"], "member_id": in["member_id"],
		})
	})
	mux.HandleFunc("PUT /api/v1/payments/3", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 3})
	})
	g, _ := newGateway(t, mux)
	ctx := context.Background()

	list, err := g.FetchPayments(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID, "newest first")

	created, err := g.InsertPayment(ctx, payment.Payment{Amount: 30, MemberID: 5, CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, 30.0, created.Amount)

	require.NoError(t, g.UpsertPayment(ctx, created))
}

func TestHTTPGateway_Avatars(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/storage/avatars", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "uid-1/5.jpg", r.URL.Query().Get("key"))
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte("jpeg"), data)
		writeJSON(w, http.StatusOK, map[string]any{"key": "uid-1/5.jpg", "size": 4})
	})
	mux.HandleFunc("POST /api/v1/storage/avatars/sign", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, float64(1800), in["expires_in"])
		writeJSON(w, http.StatusOK, map[string]string{"signed_url": "/api/v1/storage/avatars/object?token=abc"})
	})
	g, srv := newGateway(t, mux)
	ctx := context.Background()

	require.NoError(t, g.UploadAvatar(ctx, "uid-1/5.jpg", []byte("jpeg"), "image/jpeg"))

	u, err := g.SignedAvatarURL(ctx, "uid-1/5.jpg", 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/api/v1/storage/avatars/object?token=abc", u)
}

func TestHTTPGateway_Auth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"uid": "uid-1", "status": "Ok"})
	})
	mux.HandleFunc("POST /user/login", func(w http.ResponseWriter, r *http.Request) {
		var in credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in.Password != "secret123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": "tok", "uid": "uid-1"})
	})
	mux.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})
	g, _ := newGateway(t, mux)
	ctx := context.Background()

	uid, err := g.Register(ctx, "a@club.org", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)

	res, err := g.Login(ctx, "a@club.org", "secret123")
	require.NoError(t, err)
	assert.Equal(t, LoginResult{Token: "tok", UID: "uid-1"}, res)

	_, err = g.Login(ctx, "a@club.org", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.NoError(t, g.HealthCheck(ctx))
}

func TestHTTPGateway_Unreachable(t *testing.T) {
	g := NewHTTPGateway("http://127.0.0.1:1", &http.Client{Timeout: time.Second}, nil, slog.Default())

	_, err := g.FetchMembers(context.Background(), true)
	assert.Error(t, err)
}

func TestClockSkew(t *testing.T) {
	local := time.Date(2024, 5, 20, 10, 5, 0, 0, time.UTC)

	tests := []struct {
		name     string
		server   string
		wantSkew time.Duration
		wantOK   bool
	}{
		{name: "clock ahead", server: "2024-05-20T10:00:00Z", wantSkew: 5 * time.Minute, wantOK: true},
		{name: "clock behind", server: "2024-05-20T10:05:30+00", wantSkew: -30 * time.Second, wantOK: true},
		{name: "missing", server: ""},
		{name: "garbage", server: "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skew, ok := ClockSkew(tt.server, local)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSkew, skew)
		})
	}
}
