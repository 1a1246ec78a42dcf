package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tcfw/starregistry/internal/config"
	"github.com/tcfw/starregistry/pkg/ledger"
	"github.com/tcfw/starregistry/pkg/registry"
)

var (
	ErrNotFound = errors.New("not found")
)

// Client talks to a running daemon's HTTP API
type Client struct {
	base string
	hc   *http.Client
}

func NewClient() (*Client, error) {
	base := viper.GetString(config.Cfg_api_daemonAddr)
	if _, err := url.Parse(base); err != nil {
		return nil, errors.Wrap(err, "parsing daemon address")
	}

	return newClient(base, &http.Client{Timeout: 30 * time.Second}), nil
}

func newClient(base string, hc *http.Client) *Client {
	return &Client{base: strings.TrimSuffix(base, "/"), hc: hc}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var rd *bytes.Reader
	if body != nil {
		d, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshalling request")
		}
		rd = bytes.NewReader(d)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling daemon")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		e := &errorResponse{}
		if err := json.NewDecoder(resp.Body).Decode(e); err != nil || e.Error == "" {
			return errors.Errorf("daemon returned %s", resp.Status)
		}
		return errors.Errorf("daemon returned %s: %s", resp.Status, e.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response")
	}

	return nil
}

func (c *Client) RequestValidation(ctx context.Context, address string) (string, error) {
	var msg string
	err := c.do(ctx, http.MethodPost, "/requestValidation", &ValidationRequest{Address: address}, &msg)
	return msg, err
}

func (c *Client) SubmitStar(ctx context.Context, claim registry.Claim) (*ledger.Block, error) {
	b := &ledger.Block{}
	if err := c.do(ctx, http.MethodPost, "/submitstar", &claim, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Client) BlockByHeight(ctx context.Context, height uint64) (*ledger.Block, error) {
	b := &ledger.Block{}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/block/height/%d", height), nil, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Client) BlockByHash(ctx context.Context, hash ledger.Hash) (*ledger.Block, error) {
	b := &ledger.Block{}
	if err := c.do(ctx, http.MethodGet, "/block/hash/"+url.PathEscape(hash.String()), nil, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Client) StarsByAddress(ctx context.Context, address string) ([]ledger.OwnedStar, error) {
	stars := []ledger.OwnedStar{}
	if err := c.do(ctx, http.MethodGet, "/blocks/"+url.PathEscape(address), nil, &stars); err != nil {
		return nil, err
	}
	return stars, nil
}

func (c *Client) ValidateChain(ctx context.Context) (*ValidationResult, error) {
	res := &ValidationResult{}
	if err := c.do(ctx, http.MethodGet, "/validateChain", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}
