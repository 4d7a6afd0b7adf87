// Package router routes completion requests for named roles to configured
// backend providers, driving an ordered fallback chain when a provider fails
// and classifying every failure through the fixed taxonomy.
//
// Flow: resolve role → policy choice → build request → attempt chain
// (provider invocations, each failure reclassified) → telemetry + trace
// persistence → response or terminal failure.
package router

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/leebase/lee-llm-router/config"
	"github.com/leebase/lee-llm-router/providers"
	"github.com/leebase/lee-llm-router/providers/cliexec"
	"github.com/leebase/lee-llm-router/providers/mock"
	"github.com/leebase/lee-llm-router/providers/openrouter"
	"github.com/leebase/lee-llm-router/routing"
	"github.com/leebase/lee-llm-router/telemetry"
)

// TokenUsageFunc is invoked once per successful attempt with the usage
// counters, role, and provider name. It is best-effort: a panic is contained.
type TokenUsageFunc func(usage providers.Usage, role, provider string)

// CompressFunc is the message compression seam applied when building a
// request. The default is a pass-through.
type CompressFunc func(messages []providers.Message) []providers.Message

// Router is the configuration-driven dispatcher. It owns no mutable state
// across calls: the snapshot is read-only for its lifetime and every call
// owns its request and attempt chain, so concurrent use needs no locking.
type Router struct {
	snap      *config.Snapshot
	registry  *providers.Registry
	policy    routing.Policy
	traces    telemetry.TraceStore
	sink      telemetry.EventSink
	onUsage   TokenUsageFunc
	logger    *zap.Logger
	workspace string
	compress  CompressFunc
	traceDir  string
}

// Option configures a Router.
type Option func(*Router)

// WithRegistry supplies a provider registry, replacing the built-ins.
func WithRegistry(reg *providers.Registry) Option {
	return func(r *Router) { r.registry = reg }
}

// WithPolicy injects a routing policy. Default: routing.StaticPolicy.
func WithPolicy(p routing.Policy) Option {
	return func(r *Router) { r.policy = p }
}

// WithTraceStore supplies a trace sink. Wins over WithTraceDir.
func WithTraceStore(store telemetry.TraceStore) Option {
	return func(r *Router) { r.traces = store }
}

// WithTraceDir is shorthand for a local file trace store rooted at dir.
func WithTraceDir(dir string) Option {
	return func(r *Router) { r.traceDir = dir }
}

// WithEventSink subscribes a sink to the router event stream.
func WithEventSink(sink telemetry.EventSink) Option {
	return func(r *Router) { r.sink = sink }
}

// WithTokenUsageHook registers the per-success usage callback.
func WithTokenUsageHook(fn TokenUsageFunc) Option {
	return func(r *Router) { r.onUsage = fn }
}

// WithLogger supplies a structured logger. Default: no-op.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// WithWorkspace sets the directory context passed to local backends.
func WithWorkspace(dir string) Option {
	return func(r *Router) { r.workspace = dir }
}

// WithCompression replaces the message compression hook.
func WithCompression(fn CompressFunc) Option {
	return func(r *Router) { r.compress = fn }
}

// DefaultRegistry returns a registry with the built-in backends registered:
// the OpenAI-compatible HTTP adapter, the CLI subprocess adapter, and the
// deterministic mock.
func DefaultRegistry() *providers.Registry {
	reg := providers.NewRegistry()
	// Built-ins never collide, so registration cannot fail.
	_ = reg.Register(openrouter.New())
	_ = reg.Register(cliexec.New())
	_ = reg.Register(mock.New())
	return reg
}

// New creates a Router over a validated configuration snapshot. It fails
// fast, before any attempt can start, on referential violations, unknown
// provider types, and missing required provider settings.
func New(snap *config.Snapshot, opts ...Option) (*Router, error) {
	r := &Router{
		snap:     snap,
		policy:   routing.StaticPolicy{},
		logger:   zap.NewNop(),
		compress: func(messages []providers.Message) []providers.Message { return messages },
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = DefaultRegistry()
	}
	if r.traces == nil {
		r.traces = telemetry.NewLocalFileTraceStore(r.traceDir)
	}

	if err := config.Validate(snap); err != nil {
		return nil, err
	}
	for name, pcfg := range snap.Providers {
		impl, err := r.registry.Get(pcfg.Type)
		if err != nil {
			return nil, &config.ConfigError{
				Message: "provider " + name + " has unknown type " + pcfg.Type, Err: err}
		}
		if err := impl.ValidateConfig(pcfg.Settings); err != nil {
			return nil, &config.ConfigError{
				Message: "provider " + name + " failed validation", Err: err}
		}
	}

	return r, nil
}

// Result delivers the outcome of a non-blocking completion.
type Result struct {
	Response *providers.Response
	Err      error
}

// Complete executes a completion for the given role, walking the fallback
// chain until a provider succeeds or the chain terminates. It blocks the
// caller; overrides may be nil.
func (r *Router) Complete(ctx context.Context, role string, messages []providers.Message, overrides *routing.Overrides) (*providers.Response, error) {
	return r.run(ctx, role, messages, overrides)
}

// CompleteAsync is the non-blocking equivalent of Complete: the fallback
// chain runs in its own goroutine and the outcome arrives on the returned
// channel. Providers take the context directly, so no per-backend off-thread
// shim is needed.
func (r *Router) CompleteAsync(ctx context.Context, role string, messages []providers.Message, overrides *routing.Overrides) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		resp, err := r.run(ctx, role, messages, overrides)
		out <- Result{Response: resp, Err: err}
	}()
	return out
}

// run drives one logical call through the resolution → policy → fallback →
// classification pipeline.
func (r *Router) run(ctx context.Context, role string, messages []providers.Message, overrides *routing.Overrides) (*providers.Response, error) {
	rcfg, err := r.resolveRole(role)
	if err != nil {
		return nil, err
	}

	choice, err := r.policy.Choose(role, r.snap)
	if err != nil {
		return nil, err
	}
	if _, ok := r.snap.Providers[choice.Provider]; !ok {
		return nil, config.NewConfigError("policy chose unknown provider: %q", choice.Provider)
	}

	req := r.buildRequest(role, messages, rcfg, choice.RequestOverrides, overrides)

	r.emit(telemetry.Event{Name: telemetry.EventCallStart, RequestID: req.RequestID, Role: role})
	r.logger.Info("policy.decision",
		zap.String("request_id", req.RequestID),
		zap.String("role", role),
		zap.String("provider", choice.Provider))
	r.emit(telemetry.Event{
		Name:      telemetry.EventPolicyDecision,
		RequestID: req.RequestID,
		Role:      role,
		Provider:  choice.Provider,
	})

	callStart := time.Now()
	chain := newAttemptChain(candidateProviders(choice.Provider, rcfg))

	for {
		name, ok := chain.current()
		if !ok {
			break
		}
		req.Attempt = chain.attempt()
		pcfg := r.snap.Providers[name]

		impl, err := r.registry.Get(pcfg.Type)
		if err != nil {
			// Unreachable after New's validation unless the policy override
			// introduced a provider the snapshot never had.
			return nil, &config.ConfigError{Message: "provider " + name + " has unknown type", Err: err}
		}

		r.emit(telemetry.Event{
			Name:      telemetry.EventAttemptStart,
			RequestID: req.RequestID,
			Role:      role,
			Provider:  name,
			Attempt:   req.Attempt,
		})

		settings := pcfg.Settings.Merge(choice.ProviderOverrides)
		resp, perr := r.invoke(ctx, impl, req, settings, name)
		if perr == nil {
			chain.succeed()
			r.emit(telemetry.Event{
				Name:      telemetry.EventCallSuccess,
				RequestID: req.RequestID,
				Role:      role,
				Provider:  name,
				Attempt:   req.Attempt,
				Elapsed:   time.Since(callStart),
			})
			r.tokenUsage(resp.Usage, role, name)
			return resp, nil
		}

		chain.fail(perr)
		if chain.done() {
			r.emit(telemetry.Event{
				Name:        telemetry.EventCallFailure,
				RequestID:   req.RequestID,
				Role:        role,
				Provider:    name,
				Attempt:     req.Attempt,
				Elapsed:     time.Since(callStart),
				FailureKind: string(perr.Kind),
			})
			return nil, perr
		}

		r.logger.Info("policy.fallback",
			zap.String("request_id", req.RequestID),
			zap.String("role", role),
			zap.String("failed_provider", name),
			zap.Int("next_attempt", chain.attempt()))
	}

	// Defensive: only reachable with an empty candidate list.
	return nil, chain.lastErr
}

// invoke executes a single attempt with its own timeout budget, classifies
// the outcome, and records trace and telemetry for it.
func (r *Router) invoke(ctx context.Context, impl providers.Provider, req *providers.Request, settings providers.Settings, name string) (*providers.Response, *providers.Error) {
	attemptCtx := ctx
	cancel := context.CancelFunc(func() {})
	if req.Timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, req.Timeout)
	}
	defer cancel()

	trace := telemetry.StartTrace(req, name)
	start := time.Now()

	resp, err := impl.Complete(attemptCtx, req, settings)
	elapsed := time.Since(start)

	if err == nil {
		resp.RequestID = req.RequestID
		trace.RecordSuccess(resp, elapsed)
		r.writeTrace(trace)
		r.logger.Info("llm.complete.success",
			zap.String("request_id", req.RequestID),
			zap.String("role", req.Role),
			zap.String("provider", name),
			zap.Int("attempt", req.Attempt),
			zap.Duration("elapsed", elapsed))
		r.emit(telemetry.Event{
			Name:      telemetry.EventAttemptSuccess,
			RequestID: req.RequestID,
			Role:      req.Role,
			Provider:  name,
			Attempt:   req.Attempt,
			Elapsed:   elapsed,
		})
		return resp, nil
	}

	perr := providers.Classify(err)
	// Caller cancellation terminates the whole chain, regardless of how the
	// adapter classified the in-flight attempt.
	if ctx.Err() == context.Canceled && perr.Kind != providers.FailureCancelled {
		perr = providers.WrapError(providers.FailureCancelled, "request cancelled", err)
	}
	perr.Provider = name
	perr.Attempt = req.Attempt

	trace.RecordError(perr, elapsed)
	r.writeTrace(trace)
	r.logger.Error("llm.complete.error",
		zap.String("request_id", req.RequestID),
		zap.String("role", req.Role),
		zap.String("provider", name),
		zap.Int("attempt", req.Attempt),
		zap.String("failure_kind", string(perr.Kind)),
		zap.Duration("elapsed", elapsed),
		zap.Error(perr))
	r.emit(telemetry.Event{
		Name:        telemetry.EventAttemptFailure,
		RequestID:   req.RequestID,
		Role:        req.Role,
		Provider:    name,
		Attempt:     req.Attempt,
		Elapsed:     elapsed,
		FailureKind: string(perr.Kind),
	})
	return nil, perr
}

// emit forwards an event to the sink, containing any panic: telemetry must
// never abort or corrupt an in-flight request.
func (r *Router) emit(ev telemetry.Event) {
	if r.sink == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("event sink panicked", zap.Any("panic", rec), zap.String("event", string(ev.Name)))
		}
	}()
	ev.Timestamp = time.Now().UTC()
	r.sink.Emit(ev)
}

// writeTrace persists a trace record, containing failures and panics.
func (r *Router) writeTrace(trace *telemetry.TraceRecord) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("trace store panicked", zap.Any("panic", rec))
		}
	}()
	if err := r.traces.Write(trace); err != nil {
		r.logger.Warn("trace write failed", zap.Error(err), zap.String("request_id", trace.RequestID))
	}
}

// tokenUsage invokes the usage hook, containing any panic.
func (r *Router) tokenUsage(usage providers.Usage, role, provider string) {
	if r.onUsage == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("token usage hook panicked", zap.Any("panic", rec))
		}
	}()
	r.onUsage(usage, role, provider)
}
