package telephony

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://api.twilio.com/2010-04-01"
	defaultHTTPTimeout = 30 * time.Second
)

// TwilioGateway talks to the Twilio REST API.
type TwilioGateway struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
}

// TwilioOptions configures the Twilio gateway.
type TwilioOptions struct {
	AccountSID string
	AuthToken  string

	// BaseURL overrides the API endpoint; tests point it at a stub server.
	BaseURL string

	HTTPClient *http.Client
}

func NewTwilioGateway(opts TwilioOptions) (*TwilioGateway, error) {
	if opts.AccountSID == "" {
		return nil, errors.New("telephony: twilio account sid is required")
	}
	if opts.AuthToken == "" {
		return nil, errors.New("telephony: twilio auth token is required")
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	return &TwilioGateway{
		accountSID: opts.AccountSID,
		authToken:  opts.AuthToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

func (g *TwilioGateway) Name() string { return "twilio" }

func (g *TwilioGateway) PlaceCall(ctx context.Context, req PlaceCallRequest) (CallRecord, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", g.baseURL, g.accountSID)

	data := url.Values{}
	data.Set("To", req.To)
	data.Set("From", req.From)
	data.Set("Url", req.VoiceURL)
	if req.StatusCallback != "" {
		data.Set("StatusCallback", req.StatusCallback)
		data.Set("StatusCallbackMethod", http.MethodPost)
	}
	for _, ev := range req.StatusCallbackEvents {
		data.Add("StatusCallbackEvent", ev)
	}
	if req.MachineDetection != "" {
		data.Set("MachineDetection", req.MachineDetection)
	}
	if req.Record {
		data.Set("Record", "true")
	}

	var call twilioCall
	if err := g.post(ctx, endpoint, data, &call); err != nil {
		return CallRecord{}, err
	}
	return call.record(g.baseURL), nil
}

func (g *TwilioGateway) SendSMS(ctx context.Context, req SendSMSRequest) (MessageRecord, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", g.baseURL, g.accountSID)

	data := url.Values{}
	data.Set("To", req.To)
	data.Set("From", req.From)
	data.Set("Body", req.Body)

	var msg twilioMessage
	if err := g.post(ctx, endpoint, data, &msg); err != nil {
		return MessageRecord{}, err
	}
	return MessageRecord{SID: msg.SID, To: msg.To, From: msg.From, Status: msg.Status}, nil
}

func (g *TwilioGateway) ListCalls(ctx context.Context, req ListCallsRequest) ([]CallRecord, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", g.baseURL, g.accountSID)

	q := url.Values{}
	if req.Limit > 0 {
		q.Set("PageSize", strconv.Itoa(req.Limit))
	}
	if req.Status != "" {
		q.Set("Status", req.Status)
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var list twilioCallList
	if err := g.get(ctx, endpoint, &list); err != nil {
		return nil, err
	}
	records := make([]CallRecord, 0, len(list.Calls))
	for _, c := range list.Calls {
		records = append(records, c.record(g.baseURL))
	}
	return records, nil
}

// twilioCall mirrors the Twilio call resource.
type twilioCall struct {
	SID       string `json:"sid"`
	To        string `json:"to"`
	From      string `json:"from"`
	Status    string `json:"status"`
	Direction string `json:"direction"`
	Duration  string `json:"duration"`
	StartTime string `json:"start_time"`

	SubresourceURIs struct {
		Recordings string `json:"recordings"`
	} `json:"subresource_uris"`
}

func (c twilioCall) record(baseURL string) CallRecord {
	r := CallRecord{
		SID:       c.SID,
		To:        c.To,
		From:      c.From,
		Status:    c.Status,
		Direction: c.Direction,
	}
	if n, err := strconv.Atoi(c.Duration); err == nil {
		r.Duration = n
	}
	// Twilio uses RFC 1123 timestamps on call resources.
	if t, err := time.Parse(time.RFC1123Z, c.StartTime); err == nil {
		r.StartedAt = t.UTC()
	}
	if c.SubresourceURIs.Recordings != "" {
		r.RecordingURL = resolveURI(baseURL, c.SubresourceURIs.Recordings)
	}
	return r
}

type twilioCallList struct {
	Calls []twilioCall `json:"calls"`
}

type twilioMessage struct {
	SID    string `json:"sid"`
	To     string `json:"to"`
	From   string `json:"from"`
	Status string `json:"status"`
}

// APIError is a Twilio REST error payload.
type APIError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twilio error %d: %s", e.Code, e.Message)
}

func (g *TwilioGateway) get(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return g.do(req, result)
}

func (g *TwilioGateway) post(ctx context.Context, endpoint string, data url.Values, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return g.do(req, result)
}

func (g *TwilioGateway) do(req *http.Request, result any) error {
	req.SetBasicAuth(g.accountSID, g.authToken)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
			return fmt.Errorf("twilio error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return &apiErr
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("telephony: parse twilio response: %w", err)
		}
	}
	return nil
}

// resolveURI makes a subresource URI absolute against the API host.
func resolveURI(baseURL, uri string) string {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return uri
	}
	return u.Scheme + "://" + u.Host + uri
}
