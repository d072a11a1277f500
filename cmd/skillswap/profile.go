package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alphabot-ai/skillswap/internal/client"
)

// CLIConfig holds the CLI client configuration persisted to disk.
type CLIConfig struct {
	BaseURL    string `json:"base_url"`
	Name       string `json:"name"`
	AccountID  int64  `json:"account_id,omitempty"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
	Token      string `json:"token"`
	TokenExp   string `json:"token_expires"`
}

func skillswapDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".skillswap")
}

func currentProfilePath() string {
	return filepath.Join(skillswapDir(), "current")
}

func profileConfigPath(name string) string {
	return filepath.Join(skillswapDir(), "profiles", name, "config.json")
}

func getCurrentProfile() string {
	data, err := os.ReadFile(currentProfilePath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func setCurrentProfile(name string) error {
	if err := os.MkdirAll(skillswapDir(), 0700); err != nil {
		return err
	}
	return os.WriteFile(currentProfilePath(), []byte(name), 0600)
}

func listProfiles() ([]string, error) {
	dir := filepath.Join(skillswapDir(), "profiles")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), "config.json")); err == nil {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func loadCLIConfig() (CLIConfig, error) {
	current := getCurrentProfile()
	if current == "" {
		return CLIConfig{}, errors.New("no profile selected - run 'skillswap register --name <name>' or 'skillswap use <name>'")
	}
	data, err := os.ReadFile(profileConfigPath(current))
	if err != nil {
		return CLIConfig{}, errors.New("not initialized")
	}
	var cfg CLIConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, err
	}
	return cfg, nil
}

func saveCLIConfig(cfg CLIConfig) error {
	path := profileConfigPath(cfg.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, _ := json.MarshalIndent(cfg, "", "  ")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}
	return setCurrentProfile(cfg.Name)
}

func loadClientWithCreds() (CLIConfig, *client.Credentials, *client.Client, error) {
	cfg, err := loadCLIConfig()
	if err != nil {
		return CLIConfig{}, nil, nil, err
	}
	creds, err := client.CredentialsFromKeys(cfg.Name, cfg.PublicKey, cfg.PrivateKey)
	if err != nil {
		return CLIConfig{}, nil, nil, err
	}
	return cfg, creds, client.New(cfg.BaseURL), nil
}

func loadAuthenticatedClient() (*client.Client, error) {
	cfg, err := loadCLIConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		return nil, errors.New("not authenticated - run 'skillswap auth'")
	}
	exp, _ := time.Parse(time.RFC3339, cfg.TokenExp)
	if cfg.TokenExp != "" && time.Now().After(exp) {
		return nil, errors.New("token expired - run 'skillswap auth'")
	}

	c := client.New(cfg.BaseURL)
	c.Token = cfg.Token
	c.TokenExp = exp
	c.AccountID = cfg.AccountID
	return c, nil
}

func storeToken(cfg CLIConfig, c *client.Client) error {
	cfg.Token = c.Token
	cfg.TokenExp = c.TokenExp.Format(time.RFC3339)
	cfg.AccountID = c.AccountID
	return saveCLIConfig(cfg)
}
