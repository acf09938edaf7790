// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package client provides an HTTP client for the incentive API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vechain/incentive/api/contracts"
	"github.com/vechain/incentive/api/node"
	"github.com/vechain/incentive/runtime"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNot200Status = errors.New("not 200 status code")
)

// Output is a call result as returned by the API. Data is left encoded,
// use Decode to read it.
type Output struct {
	Contract string          `json:"contract"`
	Method   string          `json:"method"`
	Caller   thor.Address    `json:"caller"`
	Number   uint32          `json:"number"`
	Time     uint64          `json:"time"`
	Data     json.RawMessage `json:"data,omitempty"`
	Events   []*xenv.Event   `json:"events"`
	Digest   thor.Bytes32    `json:"digest"`
	Reverted bool            `json:"reverted"`
	Revert   *runtime.Revert `json:"revert,omitempty"`
}

// Decode unmarshals the returned data into v.
func (o *Output) Decode(v any) error {
	if len(o.Data) == 0 {
		return errors.New("no data")
	}
	return json.Unmarshal(o.Data, v)
}

// Client talks to a running incentived.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimSuffix(url, "/"),
		c:   c,
	}
}

// Head retrieves the committed head.
func (c *Client) Head() (*node.Head, error) {
	body, err := c.httpGET(c.url + "/node/head")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve head - %w", err)
	}

	var head node.Head
	if err = json.Unmarshal(body, &head); err != nil {
		return nil, fmt.Errorf("unable to unmarshal head - %w", err)
	}
	return &head, nil
}

// Contracts lists the builtins and their methods.
func (c *Client) Contracts() ([]*contracts.Contract, error) {
	body, err := c.httpGET(c.url + "/contracts")
	if err != nil {
		return nil, fmt.Errorf("unable to list contracts - %w", err)
	}

	var list []*contracts.Contract
	if err = json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("unable to unmarshal contracts - %w", err)
	}
	return list, nil
}

// Read evaluates a read only method. args are sent as query parameters.
func (c *Client) Read(contract, method string, caller *thor.Address, args map[string]string) (*Output, error) {
	query := url.Values{}
	for k, v := range args {
		query.Set(k, v)
	}
	if caller != nil {
		query.Set("caller", caller.String())
	}

	u := c.url + "/contracts/" + contract + "/" + method
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	body, err := c.httpGET(u)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s.%s - %w", contract, method, err)
	}
	return decodeOutput(body)
}

// Call executes a method as caller. args is marshalled as the named argument object.
func (c *Client) Call(contract, method string, caller thor.Address, args any) (*Output, error) {
	calldata := &contracts.CallData{Caller: caller}
	if args != nil {
		raw, ok := args.(json.RawMessage)
		if !ok {
			var err error
			if raw, err = json.Marshal(args); err != nil {
				return nil, fmt.Errorf("unable to marshal args - %w", err)
			}
		}
		calldata.Args = raw
	}

	body, err := c.httpPOST(c.url+"/contracts/"+contract+"/"+method, calldata)
	if err != nil {
		return nil, fmt.Errorf("unable to call %s.%s - %w", contract, method, err)
	}
	return decodeOutput(body)
}

func decodeOutput(body []byte) (*Output, error) {
	var out Output
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unable to unmarshal output - %w", err)
	}
	return &out, nil
}

func (c *Client) httpGET(url string) ([]byte, error) {
	return c.httpRequest(http.MethodGet, url, nil)
}

func (c *Client) httpPOST(url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal payload - %w", err)
	}
	return c.httpRequest(http.MethodPost, url, bytes.NewReader(data))
}

func (c *Client) httpRequest(method, url string, payload io.Reader) ([]byte, error) {
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return responseBody, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("http error - %s - %w", bytes.TrimSpace(responseBody), ErrNotFound)
	default:
		return nil, fmt.Errorf("http error - Status Code %d - %s - %w", resp.StatusCode, bytes.TrimSpace(responseBody), ErrNot200Status)
	}
}
