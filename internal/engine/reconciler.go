package engine

import (
	"github.com/shopspring/decimal"

	"storefront-variants/internal/domain"
)

// Result is the outcome of one reconciliation pass.
type Result struct {
	Variants []domain.Variant
	Added    []string // ids of synthesized variants
	Kept     int
	Removed  []string // ids of orphaned variants, in their previous order
}

// Reconciler merges a freshly generated tuple set into an existing collection.
type Reconciler struct {
	synth *Synthesizer
}

func NewReconciler(synth *Synthesizer) *Reconciler {
	return &Reconciler{synth: synth}
}

// Reconcile keeps every existing variant whose tuple is still generated,
// untouched, and synthesizes variants for tuples that have no match. Output
// order follows tuples. When several existing variants share a tuple they are
// matched first-come in existing order, one per generated occurrence; the
// rest are orphaned.
func (r *Reconciler) Reconcile(tuples []domain.Tuple, idx *AttributeIndex, basePrice decimal.Decimal, existing []domain.Variant) Result {
	pending := make(map[string][]int, len(existing))
	for i, v := range existing {
		k := v.Key()
		pending[k] = append(pending[k], i)
	}

	consumed := make([]bool, len(existing))
	res := Result{Variants: make([]domain.Variant, 0, len(tuples))}

	for _, t := range tuples {
		k := t.Key()
		if queue := pending[k]; len(queue) > 0 {
			i := queue[0]
			pending[k] = queue[1:]
			consumed[i] = true
			res.Variants = append(res.Variants, existing[i].Clone())
			res.Kept++
			continue
		}
		v := r.synth.Synthesize(t, idx, basePrice)
		res.Variants = append(res.Variants, v)
		res.Added = append(res.Added, v.ID)
	}

	for i, v := range existing {
		if !consumed[i] {
			res.Removed = append(res.Removed, v.ID)
		}
	}

	return res
}

// Regenerate runs the whole pipeline for attrs against existing.
func (r *Reconciler) Regenerate(attrs []domain.Attribute, basePrice decimal.Decimal, existing []domain.Variant) Result {
	return r.Reconcile(Generate(attrs), NewIndex(attrs), basePrice, existing)
}
