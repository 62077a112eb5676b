package viacep

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/ceplookup/pkg/domain/interfaces"
	"github.com/m-mizutani/ceplookup/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultBaseURL is the public ViaCEP endpoint
	DefaultBaseURL = "https://viacep.com.br/ws"

	// DefaultTimeout bounds a single lookup request
	DefaultTimeout = 5 * time.Second

	maxResponseSize = 64 * 1024
)

type client struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for the ViaCEP client
type Option func(*client)

// WithBaseURL sets the API base URL. The code is appended as {base}/{code}/json/.
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the timeout of each request
func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a ViaCEP address client
func New(opts ...Option) interfaces.AddressClient {
	c := &client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// response is the JSON body returned by ViaCEP
type response struct {
	Logradouro string    `json:"logradouro"`
	Bairro     string    `json:"bairro"`
	Localidade string    `json:"localidade"`
	UF         string    `json:"uf"`

	// Erro is present only for unknown codes. Its value varies (true,
	// "true"), so any occurrence of the key counts, null included.
	Erro json.RawMessage `json:"erro"`
}

// Lookup resolves a normalized postal code via ViaCEP
func (c *client) Lookup(ctx context.Context, cep string) (*model.Address, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(cep) + "/json/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create ViaCEP request", goerr.V("cep", cep))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send ViaCEP request", goerr.V("cep", cep))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.New("unexpected status code from ViaCEP",
			goerr.V("cep", cep),
			goerr.V("status", resp.StatusCode),
		)
	}

	var body response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return nil, goerr.Wrap(err, "failed to decode ViaCEP response", goerr.V("cep", cep))
	}

	if len(body.Erro) > 0 {
		return nil, goerr.Wrap(model.ErrNotFound, "ViaCEP reported an error",
			goerr.V("cep", cep),
			goerr.V("erro", string(body.Erro)),
		)
	}

	return &model.Address{
		Street:       body.Logradouro,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		StateCode:    body.UF,
	}, nil
}
