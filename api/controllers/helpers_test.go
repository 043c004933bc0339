package controllers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/krishichetan/krishichetan-backend/internal/advisory"
	"github.com/krishichetan/krishichetan-backend/internal/gateway"
	"github.com/krishichetan/krishichetan-backend/internal/ledger"
	"github.com/krishichetan/krishichetan-backend/internal/subsidy"
	"github.com/krishichetan/krishichetan-backend/pkg/storage"
	"github.com/krishichetan/krishichetan-backend/pkg/types"
)

type fixture struct {
	gateway *gateway.Service
	ledger  *ledger.Ledger
	store   *advisory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	chain, err := ledger.New(ctx, storage.NewMemoryRecordLog())
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	store, err := advisory.NewStore(ctx, advisory.StoreParams{Doc: storage.NewMemoryDocStore()})
	if err != nil {
		t.Fatalf("advisory store: %v", err)
	}

	svc := gateway.NewService(gateway.ServiceParams{
		Ledger:      chain,
		Advisories:  store,
		Eligibility: subsidy.NewEngine(),
	})
	return &fixture{gateway: svc, ledger: chain, store: store}
}

func decodeSuccess(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope types.SuccessEnvelope
	envelope.Data = dest
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding success envelope: %v (body %s)", err, rec.Body.String())
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding error envelope: %v (body %s)", err, rec.Body.String())
	}
	return envelope.Error
}
