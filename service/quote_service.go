package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shipquote/database"
	"shipquote/geo"
	"shipquote/parser"
	"shipquote/routing"
)

const (
	defaultProviderTimeout = 30 * time.Second
	defaultRecordTimeout   = 5 * time.Second
)

// ShippoQuoter quotes small parcels between resolved addresses.
type ShippoQuoter interface {
	Quote(ctx context.Context, from, to geo.Address, parcels []parser.Parcel) ([]Quote, error)
}

// FreightQuoter quotes a whole request as freight.
type FreightQuoter interface {
	Quote(ctx context.Context, req parser.ParsedRequest) ([]Quote, error)
}

// AddressResolver resolves origin and destination together.
type AddressResolver interface {
	ResolvePair(ctx context.Context, origin, originCountry, destination, destCountry string) (geo.Address, geo.Address, error)
}

// Recorder persists finished requests.
type Recorder interface {
	SaveQuoteRequest(ctx context.Context, rec database.QuoteRecord) (string, error)
}

// QuoteRequest is the caller's input.
type QuoteRequest struct {
	Request string `json:"request"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`

	// RequestID and ClientIP are set by the transport. RequestID is echoed in
	// the response; neither is trusted as a storage key.
	RequestID string `json:"-"`
	ClientIP  string `json:"-"`
}

// QuoteResponse is the aggregated result for one request.
type QuoteResponse struct {
	Success     bool                 `json:"success"`
	Quotes      []Quote              `json:"quotes"`
	Shippo      []Quote              `json:"shippo,omitempty"`
	Freightos   []Quote              `json:"freightos,omitempty"`
	Routing     string               `json:"routing"`
	Parsed      parser.ParsedRequest `json:"parsed"`
	MissingInfo []string             `json:"missingInfo,omitempty"`
	Error       string               `json:"error,omitempty"`
	RequestID   string               `json:"requestId,omitempty"`
}

// QuoteService parses a request, routes it and gathers provider quotes.
type QuoteService struct {
	Shippo          ShippoQuoter
	Freightos       FreightQuoter
	Resolver        AddressResolver
	Recorder        Recorder
	Log             *zap.Logger
	ProviderTimeout time.Duration
	RecordTimeout   time.Duration
}

func NewQuoteService(shippo ShippoQuoter, freightos FreightQuoter, resolver AddressResolver, recorder Recorder, log *zap.Logger) *QuoteService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuoteService{
		Shippo:          shippo,
		Freightos:       freightos,
		Resolver:        resolver,
		Recorder:        recorder,
		Log:             log,
		ProviderTimeout: defaultProviderTimeout,
		RecordTimeout:   defaultRecordTimeout,
	}
}

// Quote never fails: provider problems shrink the quote list and a request
// missing dimensions or locations comes back as "incomplete".
func (s *QuoteService) Quote(ctx context.Context, in QuoteRequest) QuoteResponse {
	log := s.logger()
	parsed := parser.Parse(in.Request)

	if missing := parsed.MissingInfo(); len(missing) > 0 {
		log.Info("incomplete quote request", zap.Strings("missing", missing))
		return QuoteResponse{
			Quotes:      []Quote{},
			Routing:     routing.Incomplete,
			Parsed:      parsed,
			MissingInfo: missing,
			RequestID:   in.RequestID,
		}
	}

	label := routing.Classify(parsed)
	var shippo, freight ProviderResult

	g, gctx := errgroup.WithContext(ctx)
	if routing.UsesShippo(label) {
		g.Go(func() error {
			shippo = s.quoteShippo(gctx, parsed)
			return nil
		})
	}
	if routing.UsesFreightos(label) {
		g.Go(func() error {
			freight = s.quoteFreight(gctx, parsed)
			return nil
		})
	}
	_ = g.Wait()

	quotes := make([]Quote, 0, len(shippo.Quotes)+len(freight.Quotes))
	quotes = append(quotes, shippo.Quotes...)
	quotes = append(quotes, freight.Quotes...)

	resp := QuoteResponse{
		Success:   len(quotes) > 0,
		Quotes:    quotes,
		Shippo:    shippo.Quotes,
		Freightos: freight.Quotes,
		Routing:   label,
		Parsed:    parsed,
		RequestID: in.RequestID,
	}
	for _, r := range []ProviderResult{shippo, freight} {
		if r.Provider == "" {
			continue
		}
		log.Info("provider finished",
			zap.String("provider", r.Provider),
			zap.String("status", string(r.Status)),
			zap.String("reason", r.Reason),
			zap.Int("quotes", len(r.Quotes)),
		)
	}
	log.Info("quote request routed", zap.String("routing", label), zap.Int("quotes", len(quotes)), zap.Bool("success", resp.Success))

	s.record(ctx, in, resp)
	return resp
}

func (s *QuoteService) quoteShippo(ctx context.Context, req parser.ParsedRequest) ProviderResult {
	if s.Shippo == nil || s.Resolver == nil {
		return skipped(ProviderShippo, "not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, s.providerTimeout())
	defer cancel()

	from, to, err := s.Resolver.ResolvePair(ctx, req.Origin, req.OriginCountry, req.Destination, req.DestCountry)
	if err != nil {
		s.logger().Warn("address resolution failed, skipping shippo", zap.Error(err))
		return skipped(ProviderShippo, err.Error())
	}
	quotes, err := s.Shippo.Quote(ctx, from, to, req.Parcels)
	if err != nil {
		s.logger().Error("shippo quote failed", zap.Error(err))
	}
	return resultFrom(ProviderShippo, quotes, err)
}

func (s *QuoteService) quoteFreight(ctx context.Context, req parser.ParsedRequest) ProviderResult {
	if s.Freightos == nil {
		return skipped(ProviderFreightos, "not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, s.providerTimeout())
	defer cancel()

	quotes, err := s.Freightos.Quote(ctx, req)
	if err != nil {
		s.logger().Error("freightos quote failed", zap.Error(err))
	}
	return resultFrom(ProviderFreightos, quotes, err)
}

// record hands the finished pair to the recorder without blocking the
// caller; its outcome is only logged.
func (s *QuoteService) record(ctx context.Context, in QuoteRequest, resp QuoteResponse) {
	if s.Recorder == nil {
		return
	}
	parsed, _ := json.Marshal(resp.Parsed)
	quotes, _ := json.Marshal(resp.Quotes)
	rec := database.QuoteRecord{
		ID:          uuid.NewString(),
		RequestID:   in.RequestID,
		RequestText: strings.TrimSpace(in.Request),
		Email:       in.Email,
		Phone:       in.Phone,
		ClientIP:    in.ClientIP,
		Routing:     resp.Routing,
		Success:     resp.Success,
		QuoteCount:  len(resp.Quotes),
		Parsed:      parsed,
		Quotes:      quotes,
	}
	timeout := s.RecordTimeout
	if timeout <= 0 {
		timeout = defaultRecordTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	go func() {
		defer cancel()
		if _, err := s.Recorder.SaveQuoteRequest(ctx, rec); err != nil {
			s.logger().Warn("failed to record quote request", zap.Error(err))
		}
	}()
}

func (s *QuoteService) providerTimeout() time.Duration {
	if s.ProviderTimeout <= 0 {
		return defaultProviderTimeout
	}
	return s.ProviderTimeout
}

func (s *QuoteService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
