// Package plaid implements the aggregator port against the Plaid REST API.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/finch-money/finch/internal/apperrors"
	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const (
	HostSandbox    = "https://sandbox.plaid.com"
	HostProduction = "https://production.plaid.com"

	// transactionsPageSize is the maximum page size /transactions/get accepts.
	transactionsPageSize = 500

	dateLayout = "2006-01-02"
)

// Client talks to the Plaid API over plain HTTP JSON.
type Client struct {
	baseURL    string
	clientID   string
	secret     string
	httpClient *http.Client
}

// NewClient builds a Plaid client for the given environment host.
func NewClient(baseURL, clientID, secret string) *Client {
	return &Client{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

var _ portssvc.AggregatorSvcFacade = (*Client)(nil)

// apiError is Plaid's error envelope.
type apiError struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("plaid: %s/%s: %s", e.ErrorType, e.ErrorCode, e.ErrorMessage)
}

// post sends one JSON request and decodes the response into out. Plaid signals
// errors with a JSON envelope on non-2xx statuses; ITEM_LOGIN_REQUIRED is
// mapped to ErrReauthRequired so callers can surface a relink prompt.
func (c *Client) post(ctx context.Context, path string, body map[string]any, out any) error {
	body["client_id"] = c.clientID
	body["secret"] = c.secret

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode plaid request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build plaid request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("plaid request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read plaid response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.ErrorCode != "" {
			if apiErr.ErrorCode == "ITEM_LOGIN_REQUIRED" {
				return fmt.Errorf("%s: %w", apiErr.ErrorMessage, apperrors.ErrReauthRequired)
			}
			return &apiErr
		}
		return fmt.Errorf("plaid request %s returned status %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode plaid response for %s: %w", path, err)
	}
	return nil
}

func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		ItemID      string `json:"item_id"`
	}
	err := c.post(ctx, "/item/public_token/exchange", map[string]any{
		"public_token": publicToken,
	}, &resp)
	if err != nil {
		return "", "", err
	}
	return resp.AccessToken, resp.ItemID, nil
}

func (c *Client) GetItem(ctx context.Context, accessToken string) (*portssvc.ItemRecord, error) {
	var resp struct {
		Item struct {
			ItemID        string `json:"item_id"`
			InstitutionID string `json:"institution_id"`
		} `json:"item"`
	}
	err := c.post(ctx, "/item/get", map[string]any{
		"access_token": accessToken,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &portssvc.ItemRecord{
		PlaidItemID:   resp.Item.ItemID,
		InstitutionID: resp.Item.InstitutionID,
	}, nil
}

func (c *Client) GetInstitution(ctx context.Context, institutionID string) (string, error) {
	var resp struct {
		Institution struct {
			Name string `json:"name"`
		} `json:"institution"`
	}
	err := c.post(ctx, "/institutions/get_by_id", map[string]any{
		"institution_id": institutionID,
		"country_codes":  []string{"US"},
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Institution.Name, nil
}

func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]portssvc.AccountRecord, error) {
	var resp struct {
		Accounts []struct {
			AccountID    string `json:"account_id"`
			Name         string `json:"name"`
			OfficialName string `json:"official_name"`
			Type         string `json:"type"`
			Subtype      string `json:"subtype"`
			Mask         string `json:"mask"`
		} `json:"accounts"`
	}
	err := c.post(ctx, "/accounts/get", map[string]any{
		"access_token": accessToken,
	}, &resp)
	if err != nil {
		return nil, err
	}

	records := make([]portssvc.AccountRecord, len(resp.Accounts))
	for i, a := range resp.Accounts {
		records[i] = portssvc.AccountRecord{
			PlaidAccountID: a.AccountID,
			Name:           a.Name,
			OfficialName:   a.OfficialName,
			Type:           a.Type,
			Subtype:        a.Subtype,
			Mask:           a.Mask,
		}
	}
	return records, nil
}

// wireTransaction is a transaction as it appears on the wire. Amount is
// decoded as json.Number to avoid float64 round-trips.
type wireTransaction struct {
	TransactionID        string          `json:"transaction_id"`
	PendingTransactionID *string         `json:"pending_transaction_id"`
	Pending              bool            `json:"pending"`
	Name                 string          `json:"name"`
	MerchantName         *string         `json:"merchant_name"`
	Amount               json.Number     `json:"amount"`
	Date                 string          `json:"date"`
	AuthorizedDate       *string         `json:"authorized_date"`
	CategoryID           *string         `json:"category_id"`
	PaymentChannel       string          `json:"payment_channel"`
	PaymentMeta          json.RawMessage `json:"payment_meta"`
	Location             json.RawMessage `json:"location"`
}

func (c *Client) GetTransactions(ctx context.Context, accessToken, plaidAccountID string, start, end time.Time, offset int) (int, []portssvc.TransactionRecord, error) {
	var resp struct {
		TotalTransactions int               `json:"total_transactions"`
		Transactions      []wireTransaction `json:"transactions"`
	}
	err := c.post(ctx, "/transactions/get", map[string]any{
		"access_token": accessToken,
		"start_date":   start.Format(dateLayout),
		"end_date":     end.Format(dateLayout),
		"options": map[string]any{
			"account_ids": []string{plaidAccountID},
			"count":       transactionsPageSize,
			"offset":      offset,
		},
	}, &resp)
	if err != nil {
		return 0, nil, err
	}

	records := make([]portssvc.TransactionRecord, 0, len(resp.Transactions))
	for _, wt := range resp.Transactions {
		rec, err := toTransactionRecord(wt)
		if err != nil {
			return 0, nil, err
		}
		records = append(records, rec)
	}
	return resp.TotalTransactions, records, nil
}

func toTransactionRecord(wt wireTransaction) (portssvc.TransactionRecord, error) {
	amount, err := decimal.NewFromString(wt.Amount.String())
	if err != nil {
		return portssvc.TransactionRecord{}, fmt.Errorf("invalid amount %q for transaction %s: %w", wt.Amount, wt.TransactionID, err)
	}

	date, err := time.Parse(dateLayout, wt.Date)
	if err != nil {
		return portssvc.TransactionRecord{}, fmt.Errorf("invalid date %q for transaction %s: %w", wt.Date, wt.TransactionID, err)
	}

	var authorizedDate *time.Time
	if wt.AuthorizedDate != nil && *wt.AuthorizedDate != "" {
		ad, err := time.Parse(dateLayout, *wt.AuthorizedDate)
		if err != nil {
			return portssvc.TransactionRecord{}, fmt.Errorf("invalid authorized date %q for transaction %s: %w", *wt.AuthorizedDate, wt.TransactionID, err)
		}
		authorizedDate = &ad
	}

	return portssvc.TransactionRecord{
		PlaidTxnID:     wt.TransactionID,
		PendingTxnID:   wt.PendingTransactionID,
		Pending:        wt.Pending,
		Name:           wt.Name,
		MerchantName:   wt.MerchantName,
		Amount:         amount,
		Date:           date,
		AuthorizedDate: authorizedDate,
		CategoryID:     wt.CategoryID,
		PaymentChannel: wt.PaymentChannel,
		PaymentMeta:    wt.PaymentMeta,
		LocationMeta:   wt.Location,
	}, nil
}
