package engine

import (
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-variants/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func attr(id, name string, order int, values ...string) domain.Attribute {
	a := domain.Attribute{ID: id, Name: name, Kind: domain.AttributeKindCustom, DisplayOrder: order}
	for i, v := range values {
		a.Values = append(a.Values, domain.AttributeValue{ID: fmt.Sprintf("%s-%d", id, i), Value: v})
	}
	return a
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("v%d", n)
	}
}

func newTestReconciler() *Reconciler {
	return NewReconciler(NewSynthesizer(DefaultSeed()).WithIDGenerator(sequentialIDs()))
}

func titles(vs []domain.Variant) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Title
	}
	return out
}

func TestGenerate_CartesianOrder(t *testing.T) {
	attrs := []domain.Attribute{
		attr("size", "Size", 1, "S", "M", "L"),
		attr("color", "Color", 0, "Red", "Blue"),
	}

	tuples := Generate(attrs)

	require.Len(t, tuples, 6)
	got := make([]string, len(tuples))
	seen := map[string]bool{}
	for i, tp := range tuples {
		got[i] = Title(tp)
		seen[tp.Key()] = true
	}
	assert.Equal(t, []string{
		"Red / S", "Red / M", "Red / L",
		"Blue / S", "Blue / M", "Blue / L",
	}, got)
	assert.Len(t, seen, 6)
	assert.Equal(t, 6, Count(attrs))
}

func TestGenerate_SkipsIneligible(t *testing.T) {
	attrs := []domain.Attribute{
		attr("a", "", 0, "x"),
		attr("b", "Material", 1),
		attr("c", "Color", 2, "Red"),
	}

	tuples := Generate(attrs)

	require.Len(t, tuples, 1)
	assert.Equal(t, domain.Tuple{{Name: "Color", Value: "Red", ValueID: "c-0"}}, tuples[0])
}

func TestGenerate_Empty(t *testing.T) {
	assert.Equal(t, []domain.Tuple{}, Generate(nil))
	assert.Empty(t, Generate([]domain.Attribute{attr("a", "  ", 0, "x")}))
	assert.Equal(t, 0, Count(nil))
}

func binaryAttrs(n int) []domain.Attribute {
	attrs := make([]domain.Attribute, n)
	for i := range attrs {
		attrs[i] = attr(fmt.Sprintf("a%d", i), fmt.Sprintf("Opt%d", i), i, "Yes", "No")
	}
	return attrs
}

func TestCount_SaturatesOnHugeProducts(t *testing.T) {
	attrs := binaryAttrs(64)

	assert.Equal(t, math.MaxInt, Count(attrs))
	assert.Equal(t, maxPrealloc, capacityHint(Count(attrs)))
	assert.Equal(t, 6, capacityHint(6))
}

func TestGenerate_BeyondPreallocBound(t *testing.T) {
	attrs := binaryAttrs(13)

	tuples := Generate(attrs)

	require.Len(t, tuples, 8192)
	assert.Equal(t, Count(attrs), len(tuples))
	assert.Equal(t, "No", tuples[len(tuples)-1][12].Value)
}

func TestGenerate_DuplicateLabelsAreKept(t *testing.T) {
	tuples := Generate([]domain.Attribute{attr("c", "Color", 0, "Red", "Red")})

	require.Len(t, tuples, 2)
	assert.Equal(t, tuples[0].Key(), tuples[1].Key())
}

func TestSynthesize_PriceAggregation(t *testing.T) {
	color := attr("color", "Color", 0, "Red")
	color.Values[0].PriceModifier = dec("5.00")
	size := attr("size", "Size", 1, "L")
	size.Values[0].PriceModifier = dec("2.50")
	attrs := []domain.Attribute{color, size}

	s := NewSynthesizer(DefaultSeed()).WithIDGenerator(sequentialIDs())
	v := s.Synthesize(Generate(attrs)[0], NewIndex(attrs), dec("20.00"))

	assert.True(t, v.Price.Equal(dec("27.50")), "price = %s", v.Price)
	assert.True(t, v.ComparePrice.Equal(dec("34.375")), "comparePrice = %s", v.ComparePrice)
	assert.True(t, v.Cost.Equal(dec("16.50")), "cost = %s", v.Cost)
	assert.Equal(t, "Red / L", v.Title)
	assert.Equal(t, "VAR-RED-L", v.SKU)
	assert.Equal(t, "v1", v.ID)
}

func TestSynthesize_Defaults(t *testing.T) {
	attrs := []domain.Attribute{attr("c", "Color", 0, "Navy Blue")}
	v := NewSynthesizer(DefaultSeed()).Synthesize(Generate(attrs)[0], NewIndex(attrs), dec("10"))

	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "VAR-NAVY-BLUE", v.SKU)
	assert.Equal(t, 100, v.Inventory)
	assert.True(t, v.Active)
	assert.True(t, v.TrackQuantity)
	assert.True(t, v.RequiresShipping)
	assert.True(t, v.Taxable)
	assert.False(t, v.ContinueSellingWhenOutOfStock)
	assert.Empty(t, v.Images)
	assert.Equal(t, domain.DefaultChannels, v.SalesChannels.Enabled())
	assert.Equal(t, domain.DefaultLowStockThreshold, v.InventoryPolicy.LowStockThreshold)
}

func TestIndex_DuplicateLabelsResolveByValueID(t *testing.T) {
	a := attr("c", "Color", 0, "Red", "Red")
	a.Values[0].PriceModifier = dec("1")
	a.Values[1].PriceModifier = dec("3")
	idx := NewIndex([]domain.Attribute{a})

	tuples := Generate([]domain.Attribute{a})
	assert.True(t, idx.Sum(tuples[0]).Equal(dec("1")))
	assert.True(t, idx.Sum(tuples[1]).Equal(dec("3")))
	assert.True(t, idx.Modifier(domain.Choice{Name: "Color", Value: "Red"}).Equal(dec("1")))
	assert.True(t, idx.Modifier(domain.Choice{Name: "Nope", Value: "x"}).IsZero())

	var nilIdx *AttributeIndex
	assert.True(t, nilIdx.Sum(tuples[0]).IsZero())
}

func TestReconcile_Idempotent(t *testing.T) {
	attrs := []domain.Attribute{
		attr("color", "Color", 0, "Red", "Blue"),
		attr("size", "Size", 1, "S", "M", "L"),
	}
	r := newTestReconciler()
	tuples, idx := Generate(attrs), NewIndex(attrs)

	first := r.Reconcile(tuples, idx, dec("29.99"), nil)
	second := r.Reconcile(tuples, idx, dec("29.99"), first.Variants)

	assert.Len(t, first.Added, 6)
	assert.Empty(t, second.Added)
	assert.Empty(t, second.Removed)
	assert.Equal(t, 6, second.Kept)
	assert.Equal(t, first.Variants, second.Variants)
}

func TestReconcile_PreservesEdits(t *testing.T) {
	color := attr("color", "Color", 0, "Red", "Blue")
	size := attr("size", "Size", 1, "S")
	r := newTestReconciler()

	first := r.Regenerate([]domain.Attribute{color, size}, dec("29.99"), nil)
	require.Len(t, first.Variants, 2)
	edited := first.Variants
	edited[0].Price = dec("45.00")
	edited[0].Inventory = 3
	edited[0].Images = []string{"img/red.jpg"}

	size.Values = append(size.Values, domain.AttributeValue{ID: "size-new", Value: "XL"})
	second := r.Regenerate([]domain.Attribute{color, size}, dec("29.99"), edited)

	require.Len(t, second.Variants, 4)
	assert.Equal(t, []string{"Red / S", "Red / XL", "Blue / S", "Blue / XL"}, titles(second.Variants))
	kept := second.Variants[0]
	assert.Equal(t, edited[0].ID, kept.ID)
	assert.True(t, kept.Price.Equal(dec("45.00")))
	assert.Equal(t, 3, kept.Inventory)
	assert.Equal(t, []string{"img/red.jpg"}, kept.Images)
	assert.Equal(t, edited[1].ID, second.Variants[2].ID)
	assert.Len(t, second.Added, 2)
	assert.Equal(t, 2, second.Kept)
	assert.Empty(t, second.Removed)
}

func TestReconcile_OrphanRemoval(t *testing.T) {
	color := attr("color", "Color", 0, "Red", "Blue")
	size := attr("size", "Size", 1, "S", "M")
	r := newTestReconciler()

	first := r.Regenerate([]domain.Attribute{color, size}, dec("10"), nil)
	color.Values = color.Values[:1]
	second := r.Regenerate([]domain.Attribute{color, size}, dec("10"), first.Variants)

	assert.Equal(t, []string{"Red / S", "Red / M"}, titles(second.Variants))
	assert.Equal(t, []string{first.Variants[2].ID, first.Variants[3].ID}, second.Removed)
	assert.Empty(t, second.Added)
}

func TestReconcile_DoesNotRecomputePrice(t *testing.T) {
	color := attr("color", "Color", 0, "Red")
	r := newTestReconciler()
	first := r.Regenerate([]domain.Attribute{color}, dec("10"), nil)

	color.Values[0].PriceModifier = dec("5")
	second := r.Regenerate([]domain.Attribute{color}, dec("99"), first.Variants)

	assert.True(t, second.Variants[0].Price.Equal(dec("10")))
}

func TestReconcile_RenameReplacesVariant(t *testing.T) {
	color := attr("color", "Color", 0, "Red")
	r := newTestReconciler()
	first := r.Regenerate([]domain.Attribute{color}, dec("10"), nil)

	color.Name = "Colour"
	second := r.Regenerate([]domain.Attribute{color}, dec("10"), first.Variants)

	require.Len(t, second.Variants, 1)
	assert.NotEqual(t, first.Variants[0].ID, second.Variants[0].ID)
	assert.Equal(t, []string{first.Variants[0].ID}, second.Removed)
}

func TestReconcile_ReorderKeepsIdentity(t *testing.T) {
	color := attr("color", "Color", 0, "Red", "Blue")
	r := newTestReconciler()
	first := r.Regenerate([]domain.Attribute{color}, dec("10"), nil)

	color.Values[0], color.Values[1] = color.Values[1], color.Values[0]
	second := r.Regenerate([]domain.Attribute{color}, dec("10"), first.Variants)

	assert.Equal(t, []string{"Blue", "Red"}, titles(second.Variants))
	assert.Equal(t, first.Variants[1].ID, second.Variants[0].ID)
	assert.Equal(t, first.Variants[0].ID, second.Variants[1].ID)
}

func TestReconcile_DuplicateTupleFirstWins(t *testing.T) {
	color := attr("color", "Color", 0, "Red")
	r := newTestReconciler()
	first := r.Regenerate([]domain.Attribute{color}, dec("10"), nil)

	copyOf := first.Variants[0].Clone()
	copyOf.ID = "copy"
	existing := append(first.Variants, copyOf)

	second := r.Regenerate([]domain.Attribute{color}, dec("10"), existing)

	require.Len(t, second.Variants, 1)
	assert.Equal(t, first.Variants[0].ID, second.Variants[0].ID)
	assert.Equal(t, []string{"copy"}, second.Removed)
}

func TestReconcile_DoesNotAliasInput(t *testing.T) {
	color := attr("color", "Color", 0, "Red")
	r := newTestReconciler()
	first := r.Regenerate([]domain.Attribute{color}, dec("10"), nil)
	first.Variants[0].Images = []string{"a"}

	second := r.Regenerate([]domain.Attribute{color}, dec("10"), first.Variants)
	second.Variants[0].Images[0] = "b"

	assert.Equal(t, "a", first.Variants[0].Images[0])
}

func TestReconcile_EmptyAttributesDropsEverything(t *testing.T) {
	color := attr("color", "Color", 0, "Red")
	r := newTestReconciler()
	first := r.Regenerate([]domain.Attribute{color}, dec("10"), nil)

	second := r.Regenerate(nil, dec("10"), first.Variants)

	assert.Empty(t, second.Variants)
	assert.Equal(t, []string{first.Variants[0].ID}, second.Removed)
}
