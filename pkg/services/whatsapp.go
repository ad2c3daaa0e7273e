package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// OrderMessage is the summary sent to the owner when a customer places an order
type OrderMessage struct {
	OrderID     uint
	ProductID   uint
	Quantity    int
	NoOfEnds    int
	CreelType   string
	CreelPitch  float64
	BobinLength float64
}

// Text renders the WhatsApp message body
func (m OrderMessage) Text() string {
	return fmt.Sprintf("New Order Placed!\nOrder ID: %d\nProduct ID: %d\nQuantity: %d\nSpecifications:\n- No. of Ends: %d\n- Creel Type: %s\n- Creel Pitch: %s\n- Bobin Length: %s",
		m.OrderID, m.ProductID, m.Quantity, m.NoOfEnds, m.CreelType,
		strconv.FormatFloat(m.CreelPitch, 'f', -1, 64),
		strconv.FormatFloat(m.BobinLength, 'f', -1, 64))
}

// WhatsAppURL builds a wa.me deep link that opens a chat with number pre-filled with text
func WhatsAppURL(number, text string) string {
	number = strings.TrimPrefix(strings.TrimSpace(number), "+")
	// wa.me expects %20 for spaces
	return "https://wa.me/" + number + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// WhatsAppSender pushes a text message through a WhatsApp gateway
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phone, message string) error
}

// WhatsAppClient talks to a go-whatsapp-web-multidevice style REST gateway
type WhatsAppClient struct {
	BaseURL    string
	Username   string
	Password   string
	Path       string
	HTTPClient *http.Client
}

type sendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type sendMessageResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewWhatsAppClient creates a gateway client with a 30s timeout
func NewWhatsAppClient(baseURL, username, password, path string) *WhatsAppClient {
	return &WhatsAppClient{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Username: username,
		Password: password,
		Path:     strings.Trim(path, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *WhatsAppClient) endpoint() string {
	if c.Path == "" {
		return c.BaseURL + "/send/message"
	}
	return fmt.Sprintf("%s/%s/send/message", c.BaseURL, c.Path)
}

// SendMessage sends message to phone (digits with country code)
func (c *WhatsAppClient) SendMessage(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(sendMessageRequest{
		Phone:   strings.TrimPrefix(phone, "+") + "@s.whatsapp.net",
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
		req.Header.Set("Authorization", "Basic "+auth)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var parsed sendMessageResponse
		if json.Unmarshal(raw, &parsed) == nil && parsed.Message != "" {
			return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, parsed.Message)
		}
		return fmt.Errorf("whatsapp gateway returned %d", resp.StatusCode)
	}
	return nil
}
