// Package simplefin is a minimal client for the SimpleFIN bridge protocol:
// one-time setup-token claim plus windowed account/transaction fetches.
package simplefin

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Org identifies the institution behind an account.
type Org struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// Transaction is one raw transaction as returned by the bridge. Amount comes
// over the wire as a string; use GetAmount.
type Transaction struct {
	ID           string `json:"id"`
	Payee        string `json:"payee"`
	Description  string `json:"description"`
	AmountString string `json:"amount"`
	Posted       int64  `json:"posted"`
	Pending      bool   `json:"pending"`
}

// GetAmount parses the signed transaction amount.
func (t *Transaction) GetAmount() (float64, error) {
	v, err := strconv.ParseFloat(t.AmountString, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing transaction %s amount %q: %w", t.ID, t.AmountString, err)
	}
	return v, nil
}

// PostedTime converts the posted epoch seconds to a time.
func (t *Transaction) PostedTime() time.Time {
	return time.Unix(t.Posted, 0).UTC()
}

// Account is one raw account as returned by the bridge.
type Account struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Currency      string        `json:"currency"`
	BalanceString string        `json:"balance"`
	Org           Org           `json:"org"`
	Transactions  []Transaction `json:"transactions"`
}

// GetBalance parses the account balance.
func (a *Account) GetBalance() (float64, error) {
	v, err := strconv.ParseFloat(a.BalanceString, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing account %s balance %q: %w", a.ID, a.BalanceString, err)
	}
	return v, nil
}

// Snapshot is the full response of a windowed fetch.
type Snapshot struct {
	Accounts []Account `json:"accounts"`
}

// Client talks to a SimpleFIN bridge over HTTP.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a bridge client with a sane request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

var _ ClientInterface = (*Client)(nil)

// Claim exchanges a one-time setup token for a permanent access URL. The
// token is a base64-encoded claim URL; POSTing to it returns the access URL
// as the response body.
func (c *Client) Claim(ctx context.Context, setupToken string) (string, error) {
	claimURL, err := base64.StdEncoding.DecodeString(strings.TrimSpace(setupToken))
	if err != nil {
		return "", fmt.Errorf("decoding setup token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, string(claimURL), nil)
	if err != nil {
		return "", fmt.Errorf("creating claim request: %w", err)
	}
	req.Header.Set("Content-Length", "0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("claiming access url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("claiming access url: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading claim response: %w", err)
	}

	accessURL := strings.TrimSpace(string(body))
	if accessURL == "" {
		return "", fmt.Errorf("claiming access url: empty response")
	}
	return accessURL, nil
}

// GetAccounts fetches all accounts with their transactions posted inside
// [start, end]. The access URL embeds the credentials.
func (c *Client) GetAccounts(ctx context.Context, accessURL string, start, end time.Time) (*Snapshot, error) {
	url := fmt.Sprintf("%s/accounts?start-date=%d&end-date=%d", accessURL, start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating accounts request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching accounts: unexpected status %d", resp.StatusCode)
	}

	var snapshot Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decoding accounts response: %w", err)
	}
	return &snapshot, nil
}
