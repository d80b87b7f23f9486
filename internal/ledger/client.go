package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"

	"walletbridge/internal/domain"
)

// Client is a thin JSON-RPC client against a Solana node. It covers only the
// calls the relay needs; everything else about the ledger stays outside this
// module.
type Client struct {
	Base string
	HTTP *http.Client
}

// NewClient returns a client for the given RPC endpoint.
func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{Base: base, HTTP: httpClient}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// SendTransaction submits signed transaction bytes and returns the signature.
func (c *Client) SendTransaction(ctx context.Context, signedTx []byte) (string, error) {
	var signature string
	err := c.call(ctx, "sendTransaction", []any{
		base58.Encode(signedTx),
		map[string]string{"encoding": "base58"},
	}, &signature)
	if err != nil {
		return "", err
	}
	return signature, nil
}

// SignatureStatus reports whether the signature reached the confirmed or
// finalized commitment level.
func (c *Client) SignatureStatus(ctx context.Context, signature string) (bool, error) {
	var result struct {
		Value []*struct {
			ConfirmationStatus string `json:"confirmationStatus"`
			Err                any    `json:"err"`
		} `json:"value"`
	}
	err := c.call(ctx, "getSignatureStatuses", []any{[]string{signature}}, &result)
	if err != nil {
		return false, err
	}
	if len(result.Value) == 0 || result.Value[0] == nil {
		return false, nil
	}
	status := result.Value[0]
	if status.Err != nil {
		return false, fmt.Errorf("transaction %s failed on ledger", signature)
	}
	return status.ConfirmationStatus == "confirmed" || status.ConfirmationStatus == "finalized", nil
}

// LatestBlockhash fetches the recent blockhash callers set on transactions
// before requesting a wallet signature.
func (c *Client) LatestBlockhash(ctx context.Context) (string, error) {
	var result struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getLatestBlockhash", nil, &result); err != nil {
		return "", err
	}
	return result.Value.Blockhash, nil
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	body := new(bytes.Buffer)
	err := json.NewEncoder(body).Encode(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("rpc %s: %s", method, resp.Status)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return err
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if out != nil {
		return json.Unmarshal(rpcResp.Result, out)
	}
	return nil
}

var _ domain.LedgerClient = (*Client)(nil)
