package client

import "fmt"

// TestHelper provides utilities for creating authenticated clients in tests.
type TestHelper struct {
	BaseURL string
}

// NewTestHelper creates a new test helper for the given base URL.
func NewTestHelper(baseURL string) *TestHelper {
	return &TestHelper{BaseURL: baseURL}
}

// CreateAuthenticatedClient creates a new account with the given name and returns
// an authenticated client. This is a convenience method for tests.
func (h *TestHelper) CreateAuthenticatedClient(name string) (*Client, *Credentials, error) {
	creds, err := GenerateCredentials(name)
	if err != nil {
		return nil, nil, fmt.Errorf("generate credentials: %w", err)
	}

	c := New(h.BaseURL)
	if err := c.RegisterAndAuthenticate(creds); err != nil {
		return nil, nil, err
	}

	return c, creds, nil
}

// GetToken creates an account (if needed) and returns an access token.
// This is a convenience method for tests that need just the token string.
func (h *TestHelper) GetToken(name string) (string, error) {
	c, _, err := h.CreateAuthenticatedClient(name)
	if err != nil {
		return "", err
	}
	return c.Token, nil
}
