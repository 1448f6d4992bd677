package client

import (
	"context"
	"strconv"
	"strings"

	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/utils"
	"github.com/goccy/go-json"
)

const (
	faucetPath  = "/api/v1/sui/faucet"
	addressPath = "/api/v1/sui/address"
	balancePath = "/api/v1/sui/balance"
)

// FaucetAPI requests tokens and reads the faucet wallet
type FaucetAPI struct {
	public *Caller
}

// RequestTokens asks the faucet to send tokens to address. It needs no login.
// Rate limit and invalid address errors come back unchanged for display.
func (f *FaucetAPI) RequestTokens(ctx context.Context, address string) (*models.FaucetResponse, error) {
	req := models.FaucetRequest{WalletAddress: strings.TrimSpace(address)}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Message: MsgInvalidAddress, Err: err}
	}

	var resp models.FaucetResponse
	if err := f.public.PostJSON(ctx, faucetPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAddress returns the faucet's own wallet address
func (f *FaucetAPI) GetAddress(ctx context.Context) (string, error) {
	body, err := f.public.GetText(ctx, addressPath)
	if err != nil {
		return "", err
	}
	return parseAddress(body), nil
}

// GetBalance returns the faucet balance, 0 when the body is not a number
func (f *FaucetAPI) GetBalance(ctx context.Context) (float64, error) {
	body, err := f.public.GetText(ctx, balancePath)
	if err != nil {
		return 0, err
	}
	return parseBalance(body), nil
}

// parseAddress reads a bare address, also accepting a JSON string or the
// older {"address": "..."} envelope
func parseAddress(body string) string {
	body = strings.TrimSpace(body)
	switch {
	case strings.HasPrefix(body, "{"):
		var env struct {
			Address string `json:"address"`
		}
		if json.Unmarshal([]byte(body), &env) == nil {
			return strings.TrimSpace(env.Address)
		}
	case strings.HasPrefix(body, `"`):
		var s string
		if json.Unmarshal([]byte(body), &s) == nil {
			return strings.TrimSpace(s)
		}
	}
	return body
}

// parseBalance reads a bare number, also accepting the older
// {"balance": ...} envelope with a number or numeric string
func parseBalance(body string) float64 {
	body = strings.Trim(strings.TrimSpace(body), `"`)
	if strings.HasPrefix(body, "{") {
		var env struct {
			Balance json.Number `json:"balance"`
		}
		if json.Unmarshal([]byte(body), &env) != nil {
			return 0
		}
		body = env.Balance.String()
	}

	value, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return 0
	}
	return value
}
