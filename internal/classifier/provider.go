package classifier

import (
	"fmt"

	"github.com/arbiterlabs/arbiter/internal/domain"
)

// Provider constants
const (
	ProviderHTTP = "http"
	ProviderMock = "mock"
)

// NewPool builds one agent handle per classifier name.
// "http" handles call a model server at baseURL; "mock" handles run a
// deterministic keyword heuristic for development and tests.
func NewPool(provider, baseURL string, names []string) ([]domain.AgentHandle, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("classifier pool needs at least one agent name")
	}

	handles := make([]domain.AgentHandle, 0, len(names))
	switch provider {
	case ProviderHTTP:
		if baseURL == "" {
			return nil, fmt.Errorf("MODEL_SERVER_URL is required for http provider")
		}
		for _, name := range names {
			handles = append(handles, NewHTTPAgent(name, baseURL))
		}

	case ProviderMock:
		for _, name := range names {
			handles = append(handles, NewMockAgent(name))
		}

	default:
		return nil, fmt.Errorf("unknown classifier provider: %s (valid options: http, mock)", provider)
	}
	return handles, nil
}
