package gateway

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kevin07696/billing-service/internal/domain/ports"
)

// Registry resolves gateway codes to registered ChargeGateway implementations.
// Implements ports.GatewayRegistry.
type Registry struct {
	mu       sync.RWMutex
	gateways map[string]ports.ChargeGateway
}

// NewRegistry creates an empty gateway registry
func NewRegistry() *Registry {
	return &Registry{gateways: make(map[string]ports.ChargeGateway)}
}

// Register adds a gateway under its code; re-registering a code replaces it
func (r *Registry) Register(code string, gw ports.ChargeGateway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateways[code] = gw
}

// Get resolves a gateway by code
func (r *Registry) Get(code string) (ports.ChargeGateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gw, ok := r.gateways[code]
	if !ok {
		return nil, fmt.Errorf("gateway %q is not registered (have %v)", code, r.codes())
	}
	return gw, nil
}

func (r *Registry) codes() []string {
	codes := make([]string, 0, len(r.gateways))
	for code := range r.gateways {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
