package checkout

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/modaworks/clothestore/internal/domain/catalog"
	"github.com/modaworks/clothestore/internal/domain/identity"
	"github.com/modaworks/clothestore/internal/domain/order"
	"github.com/modaworks/clothestore/internal/domain/outbox"
	"github.com/modaworks/clothestore/internal/domain/payment"
	"github.com/modaworks/clothestore/internal/observability"
	"github.com/modaworks/clothestore/internal/observability/logctx"
)

const (
	serviceName = "checkout-service"

	useCaseCheckout = "checkout.checkout"
	useCasePay      = "checkout.pay"
	useCaseCancel   = "checkout.cancel"

	spanPrefix = "UC."

	publishPeer    = "outbox"
	publishTimeout = 300 * time.Millisecond
)

// Service is the order placement state machine: checkout reserves stock,
// pay charges and commits or releases, cancel releases. It guarantees that
// every failure path leaves the catalog either fully reserved-and-committed
// or fully released.
type Service struct {
	orders    order.Repository
	catalog   catalog.Store
	processor payment.Processor
	directory identity.UserDirectory
	addresses identity.AddressBook
	publisher outbox.Publisher
	idGen     IDGenerator

	chargeTimeout time.Duration

	tel observability.Observability
	log observability.Logger

	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

// ServiceOption tweaks optional Service behavior.
type ServiceOption func(*Service)

// WithChargeTimeout bounds each gateway charge attempt. Zero means the
// caller's context deadline applies unchanged.
func WithChargeTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.chargeTimeout = d }
}

// NewService wires the collaborators for the checkout flow. A nil tel
// disables telemetry without changing behavior.
func NewService(
	orders order.Repository,
	cat catalog.Store,
	processor payment.Processor,
	directory identity.UserDirectory,
	addresses identity.AddressBook,
	publisher outbox.Publisher,
	idGen IDGenerator,
	tel observability.Observability,
	opts ...ServiceOption,
) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	metrics := tel.Metrics()

	s := &Service{
		orders:       orders,
		catalog:      cat,
		processor:    processor,
		directory:    directory,
		addresses:    addresses,
		publisher:    publisher,
		idGen:        idGen,
		tel:          tel,
		log:          tel.Logger().With(observability.F("service", serviceName)),
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durHistogram: metrics.Histogram(observability.MUsecaseDuration),
		extCounter:   metrics.Counter(observability.MExternalRequests),
		extHistogram: metrics.Histogram(observability.MExternalRequestDuration),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Order returns the current view of an order.
func (s *Service) Order(ctx context.Context, id string) (*order.Order, error) {
	if id == "" {
		return nil, order.ErrNotFound
	}
	return s.orders.Get(ctx, id)
}

// opTrace carries the per-operation span, timer and log fields that every
// use case records the same way.
type opTrace struct {
	svc      *Service
	useCase  string
	span     trace.Span
	start    time.Time
	outcome  string
	status   string
	logger   observability.Logger
	extra    []observability.Field
	finished bool
}

func (s *Service) begin(ctx context.Context, useCase string, attrs ...attribute.KeyValue) (context.Context, *opTrace) {
	logger := logctx.FromOr(ctx, s.log).With(observability.F("use_case", useCase))

	spanAttrs := append([]attribute.KeyValue{attribute.String("use_case", useCase)}, attrs...)
	ctx, span := s.tel.Tracer().Start(ctx, spanPrefix+useCase, spanAttrs...)

	return ctx, &opTrace{
		svc:     s,
		useCase: useCase,
		span:    span,
		start:   time.Now(),
		outcome: "success",
		status:  "OK",
		logger:  logger,
	}
}

func (t *opTrace) fail(status string) {
	t.outcome = "error"
	t.status = status
}

func (t *opTrace) field(f observability.Field) {
	t.extra = append(t.extra, f)
}

// end closes the span and records the RED metrics and the use_case_done log
// line. Deferred by every operation; err is read at defer time.
func (t *opTrace) end(ctx context.Context, err *error) {
	if t.finished {
		return
	}
	t.finished = true

	lat := time.Since(t.start).Seconds()

	if t.span != nil {
		if err != nil && *err != nil {
			t.span.RecordError(*err)
			t.span.SetStatus(codes.Error, t.status)
		} else {
			t.span.SetStatus(codes.Ok, t.status)
		}
		t.span.End()
	}

	t.svc.reqCounter.Add(1,
		observability.L("use_case", t.useCase),
		observability.L("outcome", t.outcome),
	)
	t.svc.durHistogram.Observe(lat,
		observability.L("use_case", t.useCase),
	)

	fields := []observability.Field{
		observability.F("outcome", t.outcome),
		observability.F("status", t.status),
		observability.F("latency_seconds", lat),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	fields = append(fields, t.extra...)
	if err != nil && *err != nil {
		fields = append(fields, observability.F("error", (*err).Error()))
	}

	t.logger.Info("use_case_done", fields...)
}

// publish sends a lifecycle event with its own short deadline so a slow bus
// cannot stall the caller. Failures are logged, never propagated: the order
// state is already persisted by the time events go out.
func (s *Service) publish(ctx context.Context, t *opTrace, e outbox.Event) {
	if s.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	start := time.Now()
	outcome := "success"
	if err := s.publisher.Publish(pubCtx, e); err != nil {
		outcome = "error"
		t.field(observability.F("event_publish_error", err.Error()))
	}

	s.extCounter.Add(1,
		observability.L("peer", publishPeer),
		observability.L("endpoint", e.EventName()),
		observability.L("outcome", outcome),
	)
	s.extHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", publishPeer),
		observability.L("endpoint", e.EventName()),
	)
}
