// Package client provides a Go client for the SkillSwap API.
package client

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alphabot-ai/skillswap/internal/model"
)

// Client is a SkillSwap API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
	TokenExp   time.Time
	AccountID  int64
	Role       model.Role
}

// Credentials holds a member's keypair and display name.
type Credentials struct {
	Name       string
	PublicKey  string
	PrivateKey ed25519.PrivateKey
}

// Errors
var (
	ErrAlreadyRegistered = errors.New("already registered")
)

// APIError is a non-2xx response.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed (%d): %s", e.Op, e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status of an *APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// New creates a new SkillSwap client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GenerateCredentials creates a new ed25519 keypair.
func GenerateCredentials(name string) (*Credentials, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Credentials{
		Name:       name,
		PublicKey:  base64.StdEncoding.EncodeToString(pub),
		PrivateKey: priv,
	}, nil
}

// CredentialsFromKeys creates credentials from existing keys.
func CredentialsFromKeys(name, pubKeyB64, privKeyB64 string) (*Credentials, error) {
	privBytes, err := base64.StdEncoding.DecodeString(privKeyB64)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	if len(privBytes) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes", ed25519.PrivateKeySize)
	}
	return &Credentials{
		Name:       name,
		PublicKey:  pubKeyB64,
		PrivateKey: ed25519.PrivateKey(privBytes),
	}, nil
}

// PrivateKeyBase64 exports the private key for storage.
func (creds *Credentials) PrivateKeyBase64() string {
	return base64.StdEncoding.EncodeToString(creds.PrivateKey)
}

// Sign signs a message with the credentials.
func (creds *Credentials) Sign(message string) string {
	sig := ed25519.Sign(creds.PrivateKey, []byte(message))
	return base64.StdEncoding.EncodeToString(sig)
}

// GetChallenge requests an authentication challenge from the server.
func (c *Client) GetChallenge(alg string) (string, error) {
	var result struct {
		Challenge string `json:"challenge"`
	}
	if err := c.call(http.MethodPost, "/api/auth/challenge", map[string]string{"alg": alg}, "challenge", &result); err != nil {
		return "", err
	}
	return result.Challenge, nil
}

// Register creates a new public account owned by creds.
func (c *Client) Register(creds *Credentials, email, location string) (int64, error) {
	challenge, err := c.GetChallenge("ed25519")
	if err != nil {
		return 0, fmt.Errorf("get challenge: %w", err)
	}

	reqBody := map[string]any{
		"display_name": creds.Name,
		"email":        email,
		"location":     location,
		"is_public":    true,
		"alg":          "ed25519",
		"public_key":   creds.PublicKey,
		"challenge":    challenge,
		"signature":    creds.Sign(challenge),
	}
	var result struct {
		AccountID int64 `json:"account_id"`
	}
	if err := c.call(http.MethodPost, "/api/accounts", reqBody, "register", &result); err != nil {
		if StatusCode(err) == http.StatusConflict {
			return 0, ErrAlreadyRegistered
		}
		return 0, err
	}
	return result.AccountID, nil
}

// Authenticate gets a bearer token for the credentials.
func (c *Client) Authenticate(creds *Credentials) error {
	challenge, err := c.GetChallenge("ed25519")
	if err != nil {
		return fmt.Errorf("get challenge: %w", err)
	}

	reqBody := map[string]string{
		"alg":        "ed25519",
		"public_key": creds.PublicKey,
		"challenge":  challenge,
		"signature":  creds.Sign(challenge),
	}
	var result struct {
		AccessToken string     `json:"access_token"`
		ExpiresAt   time.Time  `json:"expires_at"`
		AccountID   int64      `json:"account_id"`
		Role        model.Role `json:"role"`
	}
	if err := c.call(http.MethodPost, "/api/auth/verify", reqBody, "auth", &result); err != nil {
		return err
	}

	c.Token = result.AccessToken
	c.TokenExp = result.ExpiresAt
	c.AccountID = result.AccountID
	c.Role = result.Role
	return nil
}

// RegisterAndAuthenticate is a convenience method that registers (if needed) and authenticates.
func (c *Client) RegisterAndAuthenticate(creds *Credentials) error {
	_, err := c.Register(creds, "", "")
	if err != nil && !errors.Is(err, ErrAlreadyRegistered) {
		return fmt.Errorf("register: %w", err)
	}
	return c.Authenticate(creds)
}

// Logout revokes the current token.
func (c *Client) Logout() error {
	if err := c.call(http.MethodPost, "/api/auth/logout", nil, "logout", nil); err != nil {
		return err
	}
	c.Token = ""
	c.TokenExp = time.Time{}
	return nil
}

// IsAuthenticated returns true if the client has a valid token.
func (c *Client) IsAuthenticated() bool {
	return c.Token != "" && time.Now().Before(c.TokenExp)
}

// doRequest performs an authenticated HTTP request.
func (c *Client) doRequest(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return c.HTTPClient.Do(req)
}

// call performs the request and decodes a 2xx body into out. Any other status
// becomes an *APIError.
func (c *Client) call(method, path string, body any, op string, out any) error {
	resp, err := c.doRequest(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		var payload struct {
			Error string `json:"error"`
		}
		msg := string(respBody)
		if json.Unmarshal(respBody, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetAccount fetches an account profile.
func (c *Client) GetAccount(id int64) (*model.Account, error) {
	var account model.Account
	if err := c.call(http.MethodGet, fmt.Sprintf("/api/accounts/%d", id), nil, "get account", &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// AddSkill adds a skill to your profile. skillType is "offered" or "wanted".
func (c *Client) AddSkill(name string, skillType model.SkillType) (*model.Skill, error) {
	var skill model.Skill
	reqBody := map[string]string{"name": name, "type": string(skillType)}
	if err := c.call(http.MethodPost, "/api/skills", reqBody, "add skill", &skill); err != nil {
		return nil, err
	}
	return &skill, nil
}

// DeleteSkill removes one of your skills.
func (c *Client) DeleteSkill(id int64) error {
	return c.call(http.MethodDelete, fmt.Sprintf("/api/skills/%d", id), nil, "delete skill", nil)
}

// BrowseSkills lists approved skills of public accounts.
func (c *Client) BrowseSkills(skillType model.SkillType, query string, limit int) ([]model.Skill, error) {
	params := url.Values{}
	if skillType != "" {
		params.Set("type", string(skillType))
	}
	if query != "" {
		params.Set("q", query)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var skills []model.Skill
	if err := c.call(http.MethodGet, "/api/skills?"+params.Encode(), nil, "browse skills", &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// AccountSkills lists the skills of an account.
func (c *Client) AccountSkills(accountID int64) ([]model.Skill, error) {
	var skills []model.Skill
	if err := c.call(http.MethodGet, fmt.Sprintf("/api/accounts/%d/skills", accountID), nil, "account skills", &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// RequestSwap proposes a swap to another member.
func (c *Client) RequestSwap(receiverID int64, offered, requested, message string) (*model.SwapRequest, error) {
	reqBody := map[string]any{
		"receiver_id":     receiverID,
		"skill_offered":   offered,
		"skill_requested": requested,
	}
	if message != "" {
		reqBody["message"] = message
	}
	var swap model.SwapRequest
	if err := c.call(http.MethodPost, "/api/swaps", reqBody, "request swap", &swap); err != nil {
		return nil, err
	}
	return &swap, nil
}

// MySwaps lists swaps you sent or received.
func (c *Client) MySwaps() ([]model.SwapRequest, error) {
	var swaps []model.SwapRequest
	if err := c.call(http.MethodGet, "/api/swaps", nil, "list swaps", &swaps); err != nil {
		return nil, err
	}
	return swaps, nil
}

// AnswerSwap sets the status of a swap you received.
func (c *Client) AnswerSwap(id int64, status model.SwapStatus) (*model.SwapRequest, error) {
	var swap model.SwapRequest
	reqBody := map[string]string{"status": string(status)}
	if err := c.call(http.MethodPut, fmt.Sprintf("/api/swaps/%d", id), reqBody, "answer swap", &swap); err != nil {
		return nil, err
	}
	return &swap, nil
}

// DeleteSwap removes a swap you are part of.
func (c *Client) DeleteSwap(id int64) error {
	return c.call(http.MethodDelete, fmt.Sprintf("/api/swaps/%d", id), nil, "delete swap", nil)
}

// Rate rates the other party of a swap.
func (c *Client) Rate(swapID int64, score int, comment string) (*model.Rating, error) {
	reqBody := map[string]any{"swap_id": swapID, "score": score}
	if comment != "" {
		reqBody["comment"] = comment
	}
	var rating model.Rating
	if err := c.call(http.MethodPost, "/api/ratings", reqBody, "rate", &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

// Ratings lists the ratings an account received.
func (c *Client) Ratings(accountID int64) ([]model.Rating, error) {
	var ratings []model.Rating
	if err := c.call(http.MethodGet, fmt.Sprintf("/api/accounts/%d/ratings", accountID), nil, "ratings", &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// Messages lists platform announcements.
func (c *Client) Messages(limit int) ([]model.PlatformMessage, error) {
	var messages []model.PlatformMessage
	if err := c.call(http.MethodGet, fmt.Sprintf("/api/messages?limit=%d", limit), nil, "messages", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
