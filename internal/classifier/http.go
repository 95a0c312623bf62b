package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arbiterlabs/arbiter/internal/domain"
)

const predictTimeout = 5 * time.Second

// HTTPAgent fronts one model hosted on an external model server. The server
// owns training and feature extraction; this handle only exposes the
// label-and-confidence capability to the voting core.
type HTTPAgent struct {
	id         string
	baseURL    string
	httpClient *http.Client
}

func NewHTTPAgent(id, baseURL string) *HTTPAgent {
	return &HTTPAgent{
		id:         id,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: predictTimeout},
	}
}

func (a *HTTPAgent) ID() string {
	return a.id
}

type predictRequest struct {
	Message string `json:"message"`
}

type predictResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

func (a *HTTPAgent) Predict(ctx context.Context, message string) (domain.Label, float64, error) {
	body, err := json.Marshal(predictRequest{Message: message})
	if err != nil {
		return "", 0, fmt.Errorf("marshal predict request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s/predict", a.baseURL, a.id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("predict request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("read predict response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("model %s returned status %d", a.id, resp.StatusCode)
	}

	var pr predictResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return "", 0, fmt.Errorf("decode predict response: %w", err)
	}
	if pr.Error != "" {
		return "", 0, fmt.Errorf("model %s: %s", a.id, pr.Error)
	}

	return domain.Label(pr.Label), pr.Confidence, nil
}
