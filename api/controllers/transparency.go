package controllers

import (
	"net/http"

	"github.com/krishichetan/krishichetan-backend/api/responses"
	"github.com/krishichetan/krishichetan-backend/internal/ledger"
	"github.com/krishichetan/krishichetan-backend/pkg/logger"
)

// LedgerChain exposes the full hash chain for public audit.
func LedgerChain(chain *ledger.Ledger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := chain.Snapshot(r.Context())
		responses.WriteSuccess(w, map[string]any{
			"length":  len(records),
			"tainted": chain.Tainted(),
			"chain":   records,
		})
	}
}

// LedgerVerify re-walks the chain and reports whether every link still
// holds.
func LedgerVerify(chain *ledger.Ledger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := chain.Verify(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"valid": true, "length": chain.Len()})
	}
}
