package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alphabot-ai/skillswap/internal/model"
)

// The admin calls require a token of an account with the admin role.

func (c *Client) AdminUsers() ([]model.Account, error) {
	var accounts []model.Account
	if err := c.call(http.MethodGet, "/api/admin/users", nil, "admin users", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SetBanned bans or unbans an account.
func (c *Client) SetBanned(accountID int64, banned bool) (*model.BanState, error) {
	var state model.BanState
	path := fmt.Sprintf("/api/admin/users/%d/ban", accountID)
	if err := c.call(http.MethodPut, path, map[string]bool{"is_banned": banned}, "ban", &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ModerateSkill approves or rejects a skill. action is "approve" or "reject".
func (c *Client) ModerateSkill(skillID int64, action string) (*model.Skill, error) {
	var skill model.Skill
	path := fmt.Sprintf("/api/admin/skills/%d", skillID)
	if err := c.call(http.MethodPut, path, map[string]string{"action": action}, "moderate skill", &skill); err != nil {
		return nil, err
	}
	return &skill, nil
}

func (c *Client) Broadcast(title, message string, msgType model.MessageType) (*model.PlatformMessage, error) {
	reqBody := map[string]string{"title": title, "message": message}
	if msgType != "" {
		reqBody["type"] = string(msgType)
	}
	var msg model.PlatformMessage
	if err := c.call(http.MethodPost, "/api/admin/messages", reqBody, "broadcast", &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) Report() (*model.Report, error) {
	var report model.Report
	if err := c.call(http.MethodGet, "/api/admin/reports", nil, "report", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) AdminSwaps() ([]model.SwapRequest, error) {
	var swaps []model.SwapRequest
	if err := c.call(http.MethodGet, "/api/admin/swaps", nil, "admin swaps", &swaps); err != nil {
		return nil, err
	}
	return swaps, nil
}

// AuditLog reads audit entries, newest first. Zero values leave a filter unset.
func (c *Client) AuditLog(targetType model.AuditTarget, targetID int64, limit int) ([]model.AuditEntry, error) {
	params := url.Values{}
	if targetType != "" {
		params.Set("target_type", string(targetType))
	}
	if targetID > 0 {
		params.Set("target_id", strconv.FormatInt(targetID, 10))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var entries []model.AuditEntry
	if err := c.call(http.MethodGet, "/api/admin/logs?"+params.Encode(), nil, "audit log", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
