package payment

import (
	"encoding/json"
	"net/http"
)

// GatewayHandler exposes the mock gateway over HTTP, mirroring the contract
// the Client speaks.
func GatewayHandler(g *MockGateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AuthorizationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid json"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(g.Process(req))
	}
}
