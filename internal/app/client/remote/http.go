package remote

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"clubmembers/internal/app/client/config"
	"clubmembers/internal/domain/member"
	"clubmembers/internal/domain/payment"

	"golang.org/x/exp/slog"
)

const userAgent = "ClubMembers-Client/1.0"

// HTTPGateway реализация Gateway поверх HTTP API сервера.
type HTTPGateway struct {
	client    *http.Client
	tokens    TokenSource
	log       *slog.Logger
	baseURL   string
	userAgent string
}

var _ Gateway = (*HTTPGateway)(nil)

// NewHTTPClient создает http.Client по настройкам клиента.
func NewHTTPClient(cfg *config.Config) (*http.Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
	}

	if cfg.EnableTLS && cfg.CACertPath != "" {
		pem, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения CA сертификата: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New("CA сертификат не содержит PEM блоков")
		}
		transport.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	}

	return &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: transport,
	}, nil
}

func NewHTTPGateway(baseURL string, client *http.Client, tokens TokenSource, log *slog.Logger) *HTTPGateway {
	return &HTTPGateway{
		client:    client,
		tokens:    tokens,
		log:       log.With("component", "remote_gateway"),
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

// LoginResult ответ на успешный вход.
type LoginResult struct {
	Token string `json:"token"`
	UID   string `json:"uid"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MaxClockSkew расхождение часов с сервером, после которого HealthCheck предупреждает в лог.
const MaxClockSkew = time.Minute

// HealthCheck проверяет доступность сервера и сверяет часы:
// победитель слияния выбирается по updated_at, поэтому убежавшие часы клиента перетирают чужие правки.
func (g *HTTPGateway) HealthCheck(ctx context.Context) error {
	resp, err := g.doRequest(ctx, http.MethodGet, "/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}

	var out struct {
		ServerTime string `json:"server_time"`
	}
	if err := g.parseResponse(resp, &out); err != nil {
		return err
	}

	if skew, ok := ClockSkew(out.ServerTime, time.Now()); ok && (skew > MaxClockSkew || skew < -MaxClockSkew) {
		g.log.Warn("Часы клиента расходятся с сервером", "skew", skew)
	}
	return nil
}

// ClockSkew разница между локальным временем и временем сервера.
// ok == false, если сервер время не прислал или его не удалось разобрать.
func ClockSkew(serverTime string, local time.Time) (time.Duration, bool) {
	if serverTime == "" {
		return 0, false
	}
	ts, err := member.ParseTimestamp(serverTime)
	if err != nil {
		return 0, false
	}
	return local.Sub(ts), true
}

// Register создает пользователя и возвращает его uid.
func (g *HTTPGateway) Register(ctx context.Context, email, password string) (string, error) {
	resp, err := g.doRequest(ctx, http.MethodPost, "/user/register", credentials{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	var out struct {
		UID string `json:"uid"`
	}
	if err := g.parseResponse(resp, &out); err != nil {
		return "", err
	}
	return out.UID, nil
}

func (g *HTTPGateway) Login(ctx context.Context, email, password string) (LoginResult, error) {
	resp, err := g.doRequest(ctx, http.MethodPost, "/user/login", credentials{Email: email, Password: password})
	if err != nil {
		return LoginResult{}, err
	}

	var out LoginResult
	if err := g.parseResponse(resp, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

// Logout отзывает текущий токен на сервере.
func (g *HTTPGateway) Logout(ctx context.Context) error {
	resp, err := g.doRequest(ctx, http.MethodPost, "/user/logout", nil)
	if err != nil {
		return err
	}
	return g.parseResponse(resp, nil)
}

// FetchMembers разбирает записи по одной: испорченная строка попадает в Snapshot.Skipped
// и не мешает остальным.
func (g *HTTPGateway) FetchMembers(ctx context.Context, onlyLive bool) (Snapshot, error) {
	path := "/api/v1/members"
	if onlyLive {
		path += "?only_live=true"
	}

	resp, err := g.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Snapshot{}, err
	}

	var raw []member.Remote
	if err := g.parseResponse(resp, &raw); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Members: make([]member.Member, 0, len(raw))}
	for _, r := range raw {
		m, err := member.FromRemote(r)
		if err != nil {
			g.log.Warn("skipping malformed member", "id", r.ID, "error", err)
			snap.Skipped = append(snap.Skipped, r.ID)
			continue
		}
		snap.Members = append(snap.Members, m)
	}
	return snap, nil
}

func (g *HTTPGateway) UpsertMember(ctx context.Context, m member.Member) error {
	resp, err := g.doRequest(ctx, http.MethodPut, memberPath(m.ID), member.ToRemote(m))
	if err != nil {
		return err
	}
	return g.parseResponse(resp, nil)
}

func (g *HTTPGateway) DeleteMember(ctx context.Context, id int64) error {
	resp, err := g.doRequest(ctx, http.MethodDelete, memberPath(id), nil)
	if err != nil {
		return err
	}
	return g.parseResponse(resp, nil)
}

func (g *HTTPGateway) FetchPayments(ctx context.Context, memberID int64) ([]payment.Payment, error) {
	resp, err := g.doRequest(ctx, http.MethodGet, memberPath(memberID)+"/payments", nil)
	if err != nil {
		return nil, err
	}

	var raw []payment.Remote
	if err := g.parseResponse(resp, &raw); err != nil {
		return nil, err
	}

	payments := make([]payment.Payment, 0, len(raw))
	for _, r := range raw {
		p, err := payment.FromRemote(r)
		if err != nil {
			g.log.Warn("skipping malformed payment", "id", r.ID, "error", err)
			continue
		}
		payments = append(payments, p)
	}
	payment.SortNewestFirst(payments)
	return payments, nil
}

func (g *HTTPGateway) InsertPayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	body := payment.ToRemote(p)
	body.ID = 0

	resp, err := g.doRequest(ctx, http.MethodPost, "/api/v1/payments", body)
	if err != nil {
		return payment.Payment{}, err
	}

	var out payment.Remote
	if err := g.parseResponse(resp, &out); err != nil {
		return payment.Payment{}, err
	}
	return payment.FromRemote(out)
}

func (g *HTTPGateway) UpsertPayment(ctx context.Context, p payment.Payment) error {
	resp, err := g.doRequest(ctx, http.MethodPut, "/api/v1/payments/"+strconv.FormatInt(p.ID, 10), payment.ToRemote(p))
	if err != nil {
		return err
	}
	return g.parseResponse(resp, nil)
}

func (g *HTTPGateway) UploadAvatar(ctx context.Context, key string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	req, err := g.newRequest(ctx, http.MethodPut, "/api/v1/storage/avatars?key="+url.QueryEscape(key), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	return g.parseResponse(resp, nil)
}

// SignedAvatarURL возвращает абсолютную ссылку на объект, действующую ttl.
func (g *HTTPGateway) SignedAvatarURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	body := struct {
		Key       string `json:"key"`
		ExpiresIn int    `json:"expires_in,omitempty"`
	}{Key: key, ExpiresIn: int(ttl / time.Second)}

	resp, err := g.doRequest(ctx, http.MethodPost, "/api/v1/storage/avatars/sign", body)
	if err != nil {
		return "", err
	}

	var out struct {
		SignedURL string `json:"signed_url"`
	}
	if err := g.parseResponse(resp, &out); err != nil {
		return "", err
	}
	return g.resolve(out.SignedURL)
}

func (g *HTTPGateway) resolve(ref string) (string, error) {
	base, err := url.Parse(g.baseURL)
	if err != nil {
		return "", fmt.Errorf("ошибка разбора адреса сервера: %w", err)
	}
	u, err := base.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("ошибка разбора ссылки: %w", err)
	}
	return u.String(), nil
}

func memberPath(id int64) string {
	return "/api/v1/members/" + strconv.FormatInt(id, 10)
}

func (g *HTTPGateway) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", g.userAgent)
	if g.tokens != nil {
		if token := g.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	g.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)
	return req, nil
}

func (g *HTTPGateway) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := g.newRequest(ctx, method, path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

func (g *HTTPGateway) parseResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	g.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"size", len(body),
	)

	if resp.StatusCode >= 400 {
		return &StatusError{Status: resp.StatusCode, Message: errorMessage(body)}
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}

// errorMessage достает текст ошибки из problem+json или {"error": ...}.
func errorMessage(body []byte) string {
	var errResp struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	if errResp.Detail != "" {
		return errResp.Detail
	}
	return errResp.Error
}
