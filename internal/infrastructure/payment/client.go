package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/andrusov/storefront-service/internal/application/ports"
	"github.com/andrusov/storefront-service/internal/config"
	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
	"github.com/andrusov/storefront-service/internal/infrastructure/monitoring"
)

// Client talks to the hosted checkout provider's REST API. The provider
// owns the payment flow end to end: we create a session, redirect the
// buyer to its URL, and poll the session status afterwards.
type Client struct {
	apiURL     string
	secretKey  string
	returnURL  string
	httpClient *http.Client
}

func NewClient(cfg config.PaymentConfig) *Client {
	return &Client{
		apiURL:    cfg.APIURL,
		secretKey: cfg.SecretKey,
		returnURL: cfg.ReturnURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

type sessionLine struct {
	Name       string `json:"name"`
	ImageURL   string `json:"image_url,omitempty"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int    `json:"quantity"`
}

type createSessionRequest struct {
	Mode       string        `json:"mode"`
	SuccessURL string        `json:"success_url"`
	CancelURL  string        `json:"cancel_url"`
	LineItems  []sessionLine `json:"line_items"`
}

type sessionResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) CreateSession(ctx context.Context, referenceID string, lines []ports.SessionLine) (*ports.CheckoutSession, error) {
	// Success and cancel both land on the payment page keyed by the
	// reference id; the verifier sorts out what actually happened.
	returnTo := fmt.Sprintf("%s/payment/%s", c.returnURL, referenceID)

	body := createSessionRequest{
		Mode:       "payment",
		SuccessURL: returnTo,
		CancelURL:  returnTo,
		LineItems:  make([]sessionLine, 0, len(lines)),
	}
	for _, line := range lines {
		body.LineItems = append(body.LineItems, sessionLine{
			Name:       line.Name,
			ImageURL:   line.ImageURL,
			UnitAmount: line.UnitAmountCents,
			Quantity:   line.Quantity,
		})
	}

	end := monitoring.TimeGatewayRequest("create_session")

	resp, err := c.do(ctx, http.MethodPost, c.apiURL+"/v1/checkout/sessions", body)
	if err != nil {
		end("error")
		return nil, err
	}
	end(strconv.Itoa(resp.httpStatus))

	if resp.session.ID == "" || resp.session.URL == "" {
		return nil, fmt.Errorf("%w: gateway returned incomplete session", domainErrors.ErrGatewayUnavailable)
	}

	return &ports.CheckoutSession{
		ID:     resp.session.ID,
		URL:    resp.session.URL,
		Status: resp.session.Status,
	}, nil
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*ports.CheckoutSession, error) {
	end := monitoring.TimeGatewayRequest("get_session")

	resp, err := c.do(ctx, http.MethodGet, c.apiURL+"/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		end("error")
		return nil, err
	}
	end(strconv.Itoa(resp.httpStatus))

	return &ports.CheckoutSession{
		ID:     resp.session.ID,
		URL:    resp.session.URL,
		Status: resp.session.Status,
	}, nil
}

type gatewayResponse struct {
	httpStatus int
	session    sessionResponse
}

func (c *Client) do(ctx context.Context, method, url string, body interface{}) (*gatewayResponse, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gateway returned %d: %s", domainErrors.ErrGatewayUnavailable, resp.StatusCode, string(data))
	}

	var session sessionResponse
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: failed to parse gateway response: %v", domainErrors.ErrGatewayUnavailable, err)
	}

	if session.Error != nil {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrGatewayUnavailable, session.Error.Message)
	}

	return &gatewayResponse{
		httpStatus: resp.StatusCode,
		session:    session,
	}, nil
}
