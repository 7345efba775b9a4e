package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront-variants/config"
	"storefront-variants/internal/collection"
	"storefront-variants/internal/domain"
	"storefront-variants/internal/engine"
	"storefront-variants/pkg/cache"
	"storefront-variants/pkg/debounce"
	"storefront-variants/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const sessionKeyPrefix = "variant:session:"

// Session is the variant editor state of one product draft.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex // guards the fields below and every store mutation
	attributes domain.AttributeSet
	basePrice  decimal.Decimal
	attrRev    uint64 // bumped on every attribute change
	appliedRev uint64 // attribute revision the collection reflects

	store     *collection.Store
	debouncer *debounce.Debouncer
	log       zerolog.Logger
}

// SessionState is a read-only view of a session.
type SessionState struct {
	ID          string                  `json:"id"`
	BasePrice   decimal.Decimal         `json:"basePrice"`
	Attributes  domain.AttributeSet     `json:"attributes"`
	Issues      []domain.AttributeIssue `json:"issues"`
	Variants    []domain.Variant        `json:"variants"`
	SelectedIDs []string                `json:"selectedIds"`
	Revision    uint64                  `json:"revision"`
	Pending     bool                    `json:"pending"` // a regeneration is scheduled
	CreatedAt   time.Time               `json:"createdAt"`
}

type VariantEditorUsecase struct {
	cache      cache.CacheService
	reconciler *engine.Reconciler
	cfg        *config.Config
}

func NewVariantEditorUsecase(c cache.CacheService, cfg *config.Config) *VariantEditorUsecase {
	seed := engine.DefaultSeed()
	seed.SKUPrefix = cfg.SKUPrefix
	seed.Inventory = cfg.DefaultInventory
	seed.ComparePriceRatio = cfg.ComparePriceRatio
	seed.CostRatio = cfg.CostRatio
	seed.InventoryPolicy.LowStockThreshold = cfg.LowStockThreshold

	return NewVariantEditorUsecaseWithSynthesizer(c, cfg, engine.NewSynthesizer(seed))
}

func NewVariantEditorUsecaseWithSynthesizer(c cache.CacheService, cfg *config.Config, synth *engine.Synthesizer) *VariantEditorUsecase {
	uc := &VariantEditorUsecase{
		cache:      c,
		reconciler: engine.NewReconciler(synth),
		cfg:        cfg,
	}
	// Expired sessions must not keep a timer alive
	c.OnEvicted(func(key string, value interface{}) {
		if s, ok := value.(*Session); ok && strings.HasPrefix(key, sessionKeyPrefix) {
			s.debouncer.Shutdown()
		}
	})
	return uc
}

// CreateSession opens an editor for a product draft. Initial attributes, if
// any, are generated immediately.
func (uc *VariantEditorUsecase) CreateSession(ctx context.Context, basePrice decimal.Decimal, attrs domain.AttributeSet) (*SessionState, error) {
	if basePrice.IsNegative() {
		return nil, domain.ErrInvalidBasePrice
	}
	if err := uc.checkCombinations(attrs); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s := &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		attributes: cloneAttributes(attrs),
		basePrice:  basePrice,
		store:      collection.NewStore(),
		debouncer:  debounce.New(uc.cfg.RegenDebounce),
		log:        logger.WithSession(*logger.WithContext(ctx), id),
	}
	uc.cache.Set(sessionKeyPrefix+id, s, uc.cfg.SessionTTL)

	if len(attrs) > 0 {
		s.mu.Lock()
		s.attrRev++
		rev := s.attrRev
		s.mu.Unlock()
		uc.regenerate(s, rev)
	}

	s.log.Info().Str("base_price", basePrice.String()).Msg("Variant editor session created")
	return uc.State(ctx, id)
}

func (uc *VariantEditorUsecase) CloseSession(ctx context.Context, id string) error {
	if _, err := uc.session(id); err != nil {
		return err
	}
	uc.cache.Delete(sessionKeyPrefix + id)
	logger.WithContext(ctx).Info().Str("session_id", id).Msg("Variant editor session closed")
	return nil
}

// session looks up a session and refreshes its TTL.
func (uc *VariantEditorUsecase) session(id string) (*Session, error) {
	val, found := uc.cache.Get(sessionKeyPrefix + id)
	if !found {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	s := val.(*Session)
	uc.cache.Set(sessionKeyPrefix+id, s, uc.cfg.SessionTTL)
	return s, nil
}

func (uc *VariantEditorUsecase) State(ctx context.Context, id string) (*SessionState, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return uc.stateLocked(s), nil
}

func (uc *VariantEditorUsecase) stateLocked(s *Session) *SessionState {
	snap := s.store.Snapshot()
	return &SessionState{
		ID:          s.ID,
		BasePrice:   s.basePrice,
		Attributes:  cloneAttributes(s.attributes),
		Issues:      s.attributes.Validate(),
		Variants:    snap.Variants,
		SelectedIDs: snap.SelectedIDs(),
		Revision:    snap.Revision,
		Pending:     s.debouncer.Pending() || s.appliedRev != s.attrRev,
		CreatedAt:   s.CreatedAt,
	}
}

// SetAttributes replaces the attribute set and schedules a debounced
// regeneration. With immediate the regeneration runs before returning.
func (uc *VariantEditorUsecase) SetAttributes(ctx context.Context, id string, attrs domain.AttributeSet, immediate bool) (*SessionState, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	if err := uc.checkCombinations(attrs); err != nil {
		return nil, err
	}
	if n := engine.Count(attrs); uc.cfg.CombinationWarnThreshold > 0 && n > uc.cfg.CombinationWarnThreshold {
		s.log.Warn().Int("combinations", n).Int("threshold", uc.cfg.CombinationWarnThreshold).Msg("Large variant combination set")
	}

	s.mu.Lock()
	s.attributes = cloneAttributes(attrs)
	s.attrRev++
	s.mu.Unlock()

	uc.schedule(s)
	if immediate && !s.debouncer.Flush() {
		uc.regenerateLatest(s)
	}
	return uc.State(ctx, id)
}

// Regenerate applies the current attribute set now, flushing any pending run.
func (uc *VariantEditorUsecase) Regenerate(ctx context.Context, id string) (*SessionState, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	if !s.debouncer.Flush() {
		uc.regenerateLatest(s)
	}
	return uc.State(ctx, id)
}

// checkCombinations rejects attribute sets whose product exceeds MAX_COMBINATIONS.
func (uc *VariantEditorUsecase) checkCombinations(attrs domain.AttributeSet) error {
	if uc.cfg.MaxCombinations <= 0 {
		return nil
	}
	if n := engine.Count(attrs); n > uc.cfg.MaxCombinations {
		return fmt.Errorf("%w: %d exceeds %d", domain.ErrTooManyCombinations, n, uc.cfg.MaxCombinations)
	}
	return nil
}

// schedule queues a debounced regeneration. The run resolves the attribute
// revision when it fires, so whichever trigger survives applies the newest set.
func (uc *VariantEditorUsecase) schedule(s *Session) {
	s.debouncer.Trigger(func() { uc.regenerateLatest(s) })
}

func (uc *VariantEditorUsecase) regenerateLatest(s *Session) {
	s.mu.Lock()
	rev := s.attrRev
	s.mu.Unlock()
	uc.regenerate(s, rev)
}

// regenerate reconciles the collection with attribute revision rev. A run
// whose revision has been superseded is dropped.
func (uc *VariantEditorUsecase) regenerate(s *Session, rev uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rev != s.attrRev {
		s.log.Debug().Uint64("revision", rev).Uint64("current", s.attrRev).Msg("Skipping superseded regeneration")
		return
	}

	start := time.Now()
	res := uc.reconciler.Regenerate(s.attributes, s.basePrice, s.store.Snapshot().Variants)
	snap := s.store.Replace(res.Variants)
	s.appliedRev = rev

	logger.Regeneration(&s.log, snap.Revision, len(res.Variants), len(res.Added), res.Kept, len(res.Removed), time.Since(start))
}

// SetBasePrice changes the base price used for variants synthesized from now
// on. Existing variant prices are left alone.
func (uc *VariantEditorUsecase) SetBasePrice(ctx context.Context, id string, price decimal.Decimal) (*SessionState, error) {
	if price.IsNegative() {
		return nil, domain.ErrInvalidBasePrice
	}
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.basePrice = price
	return uc.stateLocked(s), nil
}

// ListVariants returns one page of the filtered view.
func (uc *VariantEditorUsecase) ListVariants(ctx context.Context, id string, f domain.VariantFilter, page, limit int) ([]domain.Variant, domain.Pagination, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	view := s.store.Snapshot().View(f)
	total := len(view)
	from := (page - 1) * limit
	if from > total {
		from = total
	}
	to := from + limit
	if to > total {
		to = total
	}

	pagination := domain.Pagination{
		Page:       page,
		Limit:      limit,
		TotalItems: int64(total),
		TotalPages: (total + limit - 1) / limit,
	}
	return view[from:to], pagination, nil
}

// Stats aggregates the filtered view. Results are cached per collection revision.
func (uc *VariantEditorUsecase) Stats(ctx context.Context, id string, f domain.VariantFilter) (domain.VariantStats, error) {
	s, err := uc.session(id)
	if err != nil {
		return domain.VariantStats{}, err
	}
	snap := s.store.Snapshot()

	key := fmt.Sprintf("variant:stats:%s:%d:%s:%s", id, snap.Revision, f.Status, strings.ToLower(strings.TrimSpace(f.Search)))
	if val, found := uc.cache.Get(key); found {
		return val.(domain.VariantStats), nil
	}

	stats := collection.AggregateStatsWithThreshold(snap.View(f), uc.cfg.LowStockThreshold)
	uc.cache.Set(key, stats, uc.cfg.CacheStatsTTL)
	return stats, nil
}

func cloneAttributes(attrs domain.AttributeSet) domain.AttributeSet {
	out := make(domain.AttributeSet, len(attrs))
	for i, a := range attrs {
		a.Values = append([]domain.AttributeValue(nil), a.Values...)
		out[i] = a
	}
	return out
}
