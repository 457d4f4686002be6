// Package advisor packages ledger snapshots into one of three fixed
// analysis requests toward the LLM gateway and keeps the latest result
// per analysis kind.
package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"paisa/internal/cache"
	"paisa/internal/core"
	"paisa/internal/llm"
)

// MaxPromptTransactions bounds the outbound payload: only the most
// recent records are embedded in the prompt.
const MaxPromptTransactions = 20

const (
	adviceMaxTokens   = 500
	adviceTemperature = 0.7
)

// ErrNoData is returned when advice is requested on an empty ledger,
// before any gateway call is made.
var ErrNoData = errors.New("no transaction data available")

// Completer is the slice of the gateway client the requester needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// AnalysisSaver persists a generated analysis for an authenticated user.
// Persistence is best-effort and never fails the request.
type AnalysisSaver interface {
	SaveAnalysis(ctx context.Context, userID string, kind string, content AnalysisContent) error
}

// AnalysisContent is the stored payload for one generated analysis.
type AnalysisContent struct {
	Analysis string           `json:"analysis"`
	Metadata AnalysisMetadata `json:"metadata"`
}

type AnalysisMetadata struct {
	TransactionCount int     `json:"transactionCount"`
	Budget           float64 `json:"budget"`
}

// Result is the latest response for one analysis kind; a newer request
// for the same kind supersedes it.
type Result struct {
	Kind        Kind
	Analysis    string
	GeneratedAt time.Time
}

type Requester struct {
	gateway Completer
	saver   AnalysisSaver
	cache   *cache.LRU[string]
	flight  singleflight.Group
	log     *slog.Logger

	mu      sync.Mutex
	results map[Kind]Result
}

// NewRequester wires the requester. saver may be nil when persistence is
// not configured; cacheSize/cacheTTL size the response cache.
func NewRequester(gateway Completer, saver AnalysisSaver, cacheSize int, cacheTTL time.Duration, logger *slog.Logger) *Requester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Requester{
		gateway: gateway,
		saver:   saver,
		cache:   cache.New[string](cacheSize, cacheTTL),
		log:     logger,
		results: make(map[Kind]Result),
	}
}

// RequestAdvice sends exactly one analysis request for the given
// snapshot (newest first) and returns the completion text verbatim.
// Concurrent requests for the same snapshot and kind share a single
// in-flight gateway call; an unchanged snapshot within the cache TTL is
// answered without a network round-trip. userID may be empty; when set,
// the result is persisted best-effort.
func (r *Requester) RequestAdvice(ctx context.Context, kind Kind, snapshot []core.ExpenseRecord, budget core.Money, userID string) (string, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return "", err
	}
	if len(snapshot) == 0 {
		return "", ErrNoData
	}

	recent := snapshot
	if len(recent) > MaxPromptTransactions {
		recent = recent[:MaxPromptTransactions]
	}

	key := flightKey(kind, recent, budget)
	if text, ok := r.cache.Get(key); ok {
		r.log.DebugContext(ctx, "advice cache hit", "kind", kind)
		r.remember(kind, text)
		// The cache spares the gateway round-trip, not the user's
		// record: an authenticated call is persisted either way.
		r.persist(ctx, kind, userID, text, len(snapshot), budget)
		return text, nil
	}

	v, err, shared := r.flight.Do(key, func() (any, error) {
		return r.generate(ctx, kind, recent, budget)
	})
	if err != nil {
		return "", err
	}
	text := v.(string)
	if shared {
		r.log.DebugContext(ctx, "advice request coalesced", "kind", kind)
	}

	r.cache.Set(key, text)
	r.remember(kind, text)
	r.persist(ctx, kind, userID, text, len(snapshot), budget)
	return text, nil
}

// Latest returns the most recent result for a kind, if any.
func (r *Requester) Latest(kind Kind) (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[kind]
	return res, ok
}

func (r *Requester) generate(ctx context.Context, kind Kind, records []core.ExpenseRecord, budget core.Money) (string, error) {
	system, user, err := buildPrompts(kind, records, budget)
	if err != nil {
		return "", err
	}

	r.log.InfoContext(ctx, "generating analysis", "kind", kind, "transactions", len(records))

	return r.gateway.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			llm.TextContent("system", system),
			llm.TextContent("user", user),
		},
		MaxTokens:   adviceMaxTokens,
		Temperature: adviceTemperature,
	})
}

func (r *Requester) remember(kind Kind, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[kind] = Result{Kind: kind, Analysis: text, GeneratedAt: time.Now()}
}

// persist stores the analysis for an authenticated user. No token means
// no persistence, silently; a storage failure is logged and swallowed.
func (r *Requester) persist(ctx context.Context, kind Kind, userID, text string, txCount int, budget core.Money) {
	if r.saver == nil || userID == "" {
		return
	}
	content := AnalysisContent{
		Analysis: text,
		Metadata: AnalysisMetadata{TransactionCount: txCount, Budget: budget.Rupees()},
	}
	if err := r.saver.SaveAnalysis(ctx, userID, string(kind), content); err != nil {
		r.log.WarnContext(ctx, "analysis persistence failed", "kind", kind, "user_id", userID, "error", err)
	}
}

// flightKey hashes the snapshot and budget so identical concurrent
// requests collapse onto one gateway call.
func flightKey(kind Kind, records []core.ExpenseRecord, budget core.Money) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(promptTxns(records))
	_ = enc.Encode(budget.Paise)
	return string(kind) + ":" + hex.EncodeToString(h.Sum(nil))
}
