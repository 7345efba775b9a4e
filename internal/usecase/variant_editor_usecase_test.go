package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-variants/config"
	"storefront-variants/internal/collection"
	"storefront-variants/internal/domain"
	"storefront-variants/internal/engine"
	memcache "storefront-variants/internal/infrastructure/cache"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func attr(id, name string, order int, values ...string) domain.Attribute {
	a := domain.Attribute{ID: id, Name: name, DisplayOrder: order}
	for i, v := range values {
		a.Values = append(a.Values, domain.AttributeValue{ID: fmt.Sprintf("%s-%d", id, i), Value: v})
	}
	return a
}

func newTestUsecase(t *testing.T, debounceWindow time.Duration) *VariantEditorUsecase {
	t.Helper()
	cfg := config.FromEnv()
	cfg.RegenDebounce = debounceWindow
	cfg.SessionTTL = time.Minute
	cfg.CacheStatsTTL = time.Minute

	n := 0
	synth := engine.NewSynthesizer(engine.DefaultSeed()).WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("v%d", n)
	})
	return NewVariantEditorUsecaseWithSynthesizer(memcache.NewMemoryCache(time.Minute, time.Minute), cfg, synth)
}

func titles(vs []domain.Variant) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Title
	}
	return out
}

func TestCreateSession_GeneratesInitialAttributes(t *testing.T) {
	uc := newTestUsecase(t, time.Hour)
	ctx := context.Background()

	state, err := uc.CreateSession(ctx, dec("29.99"), domain.AttributeSet{attr("c", "Color", 0, "Red", "Blue")})

	require.NoError(t, err)
	assert.Equal(t, []string{"Red", "Blue"}, titles(state.Variants))
	assert.False(t, state.Pending)
	assert.True(t, state.Variants[0].Price.Equal(dec("29.99")))
}

func TestCreateSession_RejectsNegativeBasePrice(t *testing.T) {
	uc := newTestUsecase(t, time.Hour)

	_, err := uc.CreateSession(context.Background(), dec("-1"), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidBasePrice)
}

func TestSetAttributes_DebouncedAndSuperseded(t *testing.T) {
	uc := newTestUsecase(t, 30*time.Millisecond)
	ctx := context.Background()
	state, err := uc.CreateSession(ctx, dec("10"), nil)
	require.NoError(t, err)

	// simulate typing "Red" one keystroke at a time
	for _, label := range []string{"R", "Re", "Red"} {
		state, err = uc.SetAttributes(ctx, state.ID, domain.AttributeSet{attr("c", "Color", 0, label)}, false)
		require.NoError(t, err)
	}
	assert.True(t, state.Pending)
	assert.Empty(t, state.Variants)

	require.Eventually(t, func() bool {
		st, err := uc.State(ctx, state.ID)
		return err == nil && !st.Pending && len(st.Variants) == 1
	}, time.Second, 10*time.Millisecond)

	st, err := uc.State(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Red"}, titles(st.Variants))
	assert.Equal(t, uint64(1), st.Revision)
}

func TestSetAttributes_ImmediateAndEditPreservation(t *testing.T) {
	uc := newTestUsecase(t, time.Hour)
	ctx := context.Background()
	color := attr("c", "Color", 0, "Red", "Blue")
	size := attr("s", "Size", 1, "S")

	state, err := uc.CreateSession(ctx, dec("29.99"), domain.AttributeSet{color, size})
	require.NoError(t, err)
	red := state.Variants[0]

	price := dec("45.00")
	inventory := 3
	_, err = uc.UpdateVariant(ctx, state.ID, red.ID, domain.VariantPatch{Price: &price, Inventory: &inventory})
	require.NoError(t, err)
	_, err = uc.ToggleSelection(ctx, state.ID, state.Variants[1].ID)
	require.NoError(t, err)

	size.Values = append(size.Values, domain.AttributeValue{ID: "s-x", Value: "XL"})
	color.Values = color.Values[:1]
	state, err = uc.SetAttributes(ctx, state.ID, domain.AttributeSet{color, size}, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"Red / S", "Red / XL"}, titles(state.Variants))
	assert.Equal(t, red.ID, state.Variants[0].ID)
	assert.True(t, state.Variants[0].Price.Equal(price))
	assert.Equal(t, 3, state.Variants[0].Inventory)
	assert.Empty(t, state.SelectedIDs)
	assert.False(t, state.Pending)
}

func TestSetBasePrice_OnlyAffectsNewVariants(t *testing.T) {
	uc := newTestUsecase(t, time.Hour)
	ctx := context.Background()
	color := attr("c", "Color", 0, "Red")

	state, err := uc.CreateSession(ctx, dec("10"), domain.AttributeSet{color})
	require.NoError(t, err)
	_, err = uc.SetBasePrice(ctx, state.ID, dec("20"))
	require.NoError(t, err)

	color.Values = append(color.Values, domain.AttributeValue{ID: "c-b", Value: "Blue"})
	state, err = uc.SetAttributes(ctx, state.ID, domain.AttributeSet{color}, false)
	require.NoError(t, err)
	state, err = uc.Regenerate(ctx, state.ID)
	require.NoError(t, err)

	assert.True(t, state.Variants[0].Price.Equal(dec("10")))
	assert.True(t, state.Variants[1].Price.Equal(dec("20")))

	_, err = uc.SetBasePrice(ctx, state.ID, dec("-5"))
	assert.ErrorIs(t, err, domain.ErrInvalidBasePrice)
}

func TestBulkOperationsAndStats(t *testing.T) {
	uc := newTestUsecase(t, time.Hour)
	ctx := context.Background()

	state, err := uc.CreateSession(ctx, dec("10"), domain.AttributeSet{
		attr("c", "Color", 0, "Red", "Blue"),
		attr("s", "Size", 1, "S", "M"),
	})
	require.NoError(t, err)

	selected, err := uc.ToggleSelectAll(ctx, state.ID, domain.VariantFilter{Search: "red"})
	require.NoError(t, err)
	assert.Len(t, selected, 2)

	res, err := uc.BulkEdit(ctx, state.ID, domain.BulkEditForm{Inventory: strPtr("5"), Price: strPtr("oops")})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Affected)
	assert.Equal(t, []string{"price"}, res.RejectedFields)

	stats, err := uc.Stats(ctx, state.ID, domain.VariantFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalVariants)
	assert.Equal(t, 210, stats.TotalInventory)
	assert.Equal(t, 2, stats.LowStock)

	res, err = uc.BulkSetActive(ctx, state.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Affected)

	stats, err = uc.Stats(ctx, state.ID, domain.VariantFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.InactiveVariants)

	page, pagination, err := uc.ListVariants(ctx, state.ID, domain.VariantFilter{Status: domain.StatusActive}, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, int64(2), pagination.TotalItems)
	assert.Equal(t, 2, pagination.TotalPages)

	res, err = uc.BulkDelete(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Affected)

	st, err := uc.State(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue / S", "Blue / M"}, titles(st.Variants))
}

func TestDuplicateThenRegenerateKeepsOriginal(t *testing.T) {
	uc := newTestUsecase(t, time.Hour)
	ctx := context.Background()
	attrs := domain.AttributeSet{attr("c", "Color", 0, "Red")}

	state, err := uc.CreateSession(ctx, dec("10"), attrs)
	require.NoError(t, err)
	original := state.Variants[0]

	dup, err := uc.DuplicateVariant(ctx, state.ID, original.ID)
	require.NoError(t, err)
	assert.Equal(t, original.Title+collection.CopyTitleSuffix, dup.Title)

	state, err = uc.Regenerate(ctx, state.ID)
	require.NoError(t, err)
	require.Len(t, state.Variants, 1)
	assert.Equal(t, original.ID, state.Variants[0].ID)
}

func TestDetailEdits(t *testing.T) {
	uc := newTestUsecase(t, time.Hour)
	ctx := context.Background()
	state, err := uc.CreateSession(ctx, dec("10"), domain.AttributeSet{attr("c", "Color", 0, "Red")})
	require.NoError(t, err)
	id := state.Variants[0].ID

	_, err = uc.AddImage(ctx, state.ID, id, "a.jpg")
	require.NoError(t, err)
	_, err = uc.AddImage(ctx, state.ID, id, "b.jpg")
	require.NoError(t, err)
	v, err := uc.MoveImage(ctx, state.ID, id, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.jpg", "a.jpg"}, v.Images)

	v, err = uc.RemoveImage(ctx, state.ID, id, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, v.Images)

	v, err = uc.SetChannel(ctx, state.ID, id, domain.ChannelSocial, true)
	require.NoError(t, err)
	assert.True(t, v.SalesChannels[domain.ChannelSocial])

	got, err := uc.GetVariant(ctx, state.ID, id)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	require.NoError(t, uc.DeleteVariant(ctx, state.ID, id))
	_, err = uc.GetVariant(ctx, state.ID, id)
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)
}

func TestCloseSession(t *testing.T) {
	uc := newTestUsecase(t, time.Hour)
	ctx := context.Background()
	state, err := uc.CreateSession(ctx, dec("10"), nil)
	require.NoError(t, err)

	require.NoError(t, uc.CloseSession(ctx, state.ID))

	_, err = uc.State(ctx, state.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, uc.CloseSession(ctx, state.ID), domain.ErrSessionNotFound)
}

func TestSetAttributes_StaleTriggerAppliesLatestSet(t *testing.T) {
	uc := newTestUsecase(t, 20*time.Millisecond)
	ctx := context.Background()
	state, err := uc.CreateSession(ctx, dec("10"), nil)
	require.NoError(t, err)
	s, err := uc.session(state.ID)
	require.NoError(t, err)

	// two requests interleave: both bump the revision before either triggers,
	// and the older request's trigger lands last
	set := func(attrs domain.AttributeSet) {
		s.mu.Lock()
		s.attributes = cloneAttributes(attrs)
		s.attrRev++
		s.mu.Unlock()
	}
	set(domain.AttributeSet{attr("c", "Color", 0, "Red")})
	set(domain.AttributeSet{attr("c", "Color", 0, "Blue")})
	uc.schedule(s)
	uc.schedule(s)

	require.Eventually(t, func() bool {
		st, err := uc.State(ctx, state.ID)
		return err == nil && !st.Pending
	}, time.Second, 10*time.Millisecond)

	st, err := uc.State(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue"}, titles(st.Variants))
}

func binaryAttrs(n int) domain.AttributeSet {
	attrs := make(domain.AttributeSet, n)
	for i := range attrs {
		attrs[i] = attr(fmt.Sprintf("a%d", i), fmt.Sprintf("Opt%d", i), i, "Yes", "No")
	}
	return attrs
}

func TestCombinationCeiling(t *testing.T) {
	uc := newTestUsecase(t, time.Hour)
	ctx := context.Background()

	_, err := uc.CreateSession(ctx, dec("10"), binaryAttrs(64))
	assert.ErrorIs(t, err, domain.ErrTooManyCombinations)

	state, err := uc.CreateSession(ctx, dec("10"), domain.AttributeSet{attr("c", "Color", 0, "Red")})
	require.NoError(t, err)

	_, err = uc.SetAttributes(ctx, state.ID, binaryAttrs(64), true)
	assert.ErrorIs(t, err, domain.ErrTooManyCombinations)

	uc.cfg.MaxCombinations = 4
	_, err = uc.SetAttributes(ctx, state.ID, domain.AttributeSet{
		attr("c", "Color", 0, "Red", "Blue", "Green"),
		attr("s", "Size", 1, "S", "M"),
	}, false)
	assert.ErrorIs(t, err, domain.ErrTooManyCombinations)

	st, err := uc.State(ctx, state.ID)
	require.NoError(t, err)
	assert.False(t, st.Pending)
	assert.Len(t, st.Attributes, 1)
	assert.Equal(t, []string{"Red"}, titles(st.Variants))
}

func TestNewVariantEditorUsecase_SeedsFromConfig(t *testing.T) {
	cfg := config.FromEnv()
	cfg.LowStockThreshold = 7
	cfg.DefaultInventory = 5
	cfg.SKUPrefix = "TS-"
	uc := NewVariantEditorUsecase(memcache.NewMemoryCache(time.Minute, time.Minute), cfg)
	ctx := context.Background()

	state, err := uc.CreateSession(ctx, dec("10"), domain.AttributeSet{attr("c", "Color", 0, "Red")})
	require.NoError(t, err)

	require.Len(t, state.Variants, 1)
	v := state.Variants[0]
	assert.Equal(t, 7, v.InventoryPolicy.LowStockThreshold)
	assert.Equal(t, 5, v.Inventory)
	assert.Equal(t, "TS-RED", v.SKU)

	stats, err := uc.Stats(ctx, state.ID, domain.VariantFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LowStock)
}
