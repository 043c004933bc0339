package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/krishichetan/krishichetan-backend/internal/advisory"
	"github.com/krishichetan/krishichetan-backend/internal/ledger"
	"github.com/krishichetan/krishichetan-backend/internal/subsidy"
	"github.com/krishichetan/krishichetan-backend/pkg/enums"
	pkgerrors "github.com/krishichetan/krishichetan-backend/pkg/errors"
	"github.com/krishichetan/krishichetan-backend/pkg/logger"
	"github.com/krishichetan/krishichetan-backend/pkg/metrics"
)

// Ledger is the append surface the gateway controls. Nothing else in the
// process writes to the chain.
type Ledger interface {
	Append(ctx context.Context, payload any) (ledger.Record, error)
	Tainted() bool
}

// AdvisoryIssuer issues new pending advisories.
type AdvisoryIssuer interface {
	Create(ctx context.Context, subject string, kind enums.AdvisoryKind, message string, lang enums.Language, issuedAt time.Time) (advisory.Record, error)
}

// EligibilityChecker decides scheme eligibility from a declared land
// holding.
type EligibilityChecker interface {
	Eligible(ctx context.Context, landSizeAcres float64, lang enums.Language) ([]subsidy.Scheme, error)
}

// Step names reported when a sequenced event fails part-way, so callers
// know which mutation did not happen.
const (
	StepLedger   = "ledger"
	StepAdvisory = "advisory"
)

// Service is the single ingress for mutating events. It validates and
// classifies each request, then dispatches to the ledger, the advisory
// store, or both in a declared order.
type Service struct {
	ledger      Ledger
	advisories  AdvisoryIssuer
	eligibility EligibilityChecker
	metrics     *metrics.AdvisoryMetrics
	logg        *logger.Logger
}

type ServiceParams struct {
	Ledger      Ledger
	Advisories  AdvisoryIssuer
	Eligibility EligibilityChecker
	Metrics     *metrics.AdvisoryMetrics
	Logger      *logger.Logger
}

func NewService(params ServiceParams) *Service {
	return &Service{
		ledger:      params.Ledger,
		advisories:  params.Advisories,
		eligibility: params.Eligibility,
		metrics:     params.Metrics,
		logg:        params.Logger,
	}
}

// CheckSubsidyRequest asks whether a farmer qualifies for support
// schemes. Eligible outcomes are recorded on the integrity ledger.
type CheckSubsidyRequest struct {
	Subject       string
	Officer       string
	LandSizeAcres float64
	Language      enums.Language
}

// CheckSubsidyResult carries the schemes plus, when any were granted, the
// ledger index of the audit record.
type CheckSubsidyResult struct {
	Schemes     []subsidy.Scheme `json:"schemes"`
	Eligible    bool             `json:"eligible"`
	LedgerIndex *uint64          `json:"ledger_index,omitempty"`
}

type subsidyCheckedEvent struct {
	Event         enums.LedgerEventKind `json:"event"`
	Subject       string                `json:"subject"`
	Officer       string                `json:"officer,omitempty"`
	LandSizeAcres float64               `json:"land_size_acres"`
	Schemes       []string              `json:"schemes"`
}

// CheckSubsidy evaluates eligibility and, when at least one scheme
// matches, appends a subsidy-checked event. The ledger write happens
// before the result is reported, so an eligible response always has an
// audit record behind it.
func (s *Service) CheckSubsidy(ctx context.Context, req CheckSubsidyRequest) (CheckSubsidyResult, error) {
	if req.Subject == "" {
		return CheckSubsidyResult{}, pkgerrors.New(pkgerrors.CodeValidation, "subject is required")
	}
	if err := s.refuseWhenTainted(ctx); err != nil {
		return CheckSubsidyResult{}, err
	}

	schemes, err := s.eligibility.Eligible(ctx, req.LandSizeAcres, req.Language)
	if err != nil {
		return CheckSubsidyResult{}, err
	}

	result := CheckSubsidyResult{Schemes: schemes, Eligible: len(schemes) > 0}
	if !result.Eligible {
		return result, nil
	}

	names := make([]string, len(schemes))
	for i, scheme := range schemes {
		names[i] = scheme.Name
	}
	record, err := s.ledger.Append(ctx, subsidyCheckedEvent{
		Event:         enums.LedgerEventKindSubsidyChecked,
		Subject:       req.Subject,
		Officer:       req.Officer,
		LandSizeAcres: req.LandSizeAcres,
		Schemes:       names,
	})
	if err != nil {
		s.noteLedgerFailure(ctx, err)
		return CheckSubsidyResult{}, stepFailed(err, StepLedger)
	}
	s.metrics.IncLedgerAppend(string(enums.LedgerEventKindSubsidyChecked))

	result.LedgerIndex = &record.Index
	return result, nil
}

// IssueAdvisoryRequest is an officer-originated recommendation for one
// farmer.
type IssueAdvisoryRequest struct {
	Subject  string
	Officer  string
	Kind     enums.AdvisoryKind
	Message  string
	Language enums.Language
}

// IssueAdvisory validates and forwards a single advisory to the store.
func (s *Service) IssueAdvisory(ctx context.Context, req IssueAdvisoryRequest) (advisory.Record, error) {
	record, err := s.advisories.Create(ctx, req.Subject, req.Kind, req.Message, req.Language, time.Now())
	if err != nil {
		return advisory.Record{}, err
	}
	if s.logg != nil {
		ctx = s.logg.WithSubject(s.logg.WithOfficer(ctx, req.Officer), req.Subject)
		s.logg.Info(s.logg.WithAdvisoryID(ctx, record.ID), "advisory issued")
	}
	return record, nil
}

// IssueBulkRequest fans one advisory out to many recipients.
type IssueBulkRequest struct {
	Subjects []string
	Officer  string
	Kind     enums.AdvisoryKind
	Message  string
	Language enums.Language
}

// BulkOutcome reports one recipient's result. Error is empty on success.
type BulkOutcome struct {
	Subject    string `json:"subject"`
	AdvisoryID string `json:"advisory_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// IssueBulk issues per recipient independently: one bad recipient does
// not abort the rest, and the caller sees every outcome.
func (s *Service) IssueBulk(ctx context.Context, req IssueBulkRequest) ([]BulkOutcome, error) {
	if len(req.Subjects) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one subject is required")
	}

	outcomes := make([]BulkOutcome, 0, len(req.Subjects))
	for _, subject := range req.Subjects {
		outcome := BulkOutcome{Subject: subject}
		record, err := s.advisories.Create(ctx, subject, req.Kind, req.Message, req.Language, time.Now())
		if err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.AdvisoryID = record.ID
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// ForwardValidatedRequest records an officer signing off on an
// AI-generated recommendation and relays it to the farmer.
type ForwardValidatedRequest struct {
	RecommendationID string
	Subject          string
	Officer          string
	Kind             enums.AdvisoryKind
	Message          string
	Language         enums.Language
}

// ForwardValidatedResult names both mutations the forward produced.
type ForwardValidatedResult struct {
	LedgerIndex uint64          `json:"ledger_index"`
	Advisory    advisory.Record `json:"advisory"`
}

type recommendationValidatedEvent struct {
	Event            enums.LedgerEventKind `json:"event"`
	RecommendationID string                `json:"recommendation_id"`
	Subject          string                `json:"subject"`
	Officer          string                `json:"officer,omitempty"`
	Kind             enums.AdvisoryKind    `json:"kind"`
}

// ForwardValidated is the one event that touches both stores. The ledger
// append runs first; on a later advisory failure the caller learns which
// step failed and the audit record stands as evidence of the sign-off.
func (s *Service) ForwardValidated(ctx context.Context, req ForwardValidatedRequest) (ForwardValidatedResult, error) {
	if req.RecommendationID == "" {
		return ForwardValidatedResult{}, pkgerrors.New(pkgerrors.CodeValidation, "recommendation id is required")
	}
	if req.Subject == "" {
		return ForwardValidatedResult{}, pkgerrors.New(pkgerrors.CodeValidation, "subject is required")
	}
	if err := s.refuseWhenTainted(ctx); err != nil {
		return ForwardValidatedResult{}, err
	}

	ledgerRecord, err := s.ledger.Append(ctx, recommendationValidatedEvent{
		Event:            enums.LedgerEventKindRecValidated,
		RecommendationID: req.RecommendationID,
		Subject:          req.Subject,
		Officer:          req.Officer,
		Kind:             req.Kind,
	})
	if err != nil {
		s.noteLedgerFailure(ctx, err)
		return ForwardValidatedResult{}, stepFailed(err, StepLedger)
	}
	s.metrics.IncLedgerAppend(string(enums.LedgerEventKindRecValidated))

	advisoryRecord, err := s.advisories.Create(ctx, req.Subject, req.Kind, req.Message, req.Language, time.Now())
	if err != nil {
		return ForwardValidatedResult{}, stepFailed(err, StepAdvisory)
	}

	return ForwardValidatedResult{LedgerIndex: ledgerRecord.Index, Advisory: advisoryRecord}, nil
}

// refuseWhenTainted keeps ledger-bound traffic out once verification has
// failed. Reads stay available for audit; writes wait for an operator.
func (s *Service) refuseWhenTainted(ctx context.Context) error {
	if !s.ledger.Tainted() {
		return nil
	}
	s.metrics.IncIntegrityFailure()
	if s.logg != nil {
		s.logg.Warn(ctx, "refusing ledger-bound event, chain failed verification")
	}
	return pkgerrors.New(pkgerrors.CodeIntegrity, "ledger integrity compromised, writes suspended")
}

func (s *Service) noteLedgerFailure(ctx context.Context, err error) {
	if pkgerrors.IsCode(err, pkgerrors.CodeIntegrity) {
		s.metrics.IncIntegrityFailure()
	}
	if s.logg != nil {
		s.logg.Error(ctx, "ledger append failed", err)
	}
}

// stepFailed annotates a sequenced event's error with the mutation that
// did not complete.
func stepFailed(err error, step string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.WithDetails(map[string]string{"failed_step": step})
	}
	return fmt.Errorf("%s step failed: %w", step, err)
}
