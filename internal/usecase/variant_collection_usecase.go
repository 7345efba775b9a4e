package usecase

import (
	"context"

	"storefront-variants/internal/collection"
	"storefront-variants/internal/domain"
)

// BulkResult reports a bulk operation over the current selection.
type BulkResult struct {
	Affected       int      `json:"affected"`
	RejectedFields []string `json:"rejectedFields,omitempty"`
	Revision       uint64   `json:"revision"`
}

// mutate runs fn under the session lock so that no regeneration pass
// interleaves with a direct edit of the collection.
func (uc *VariantEditorUsecase) mutate(id string, fn func(s *Session) error) error {
	s, err := uc.session(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

func (uc *VariantEditorUsecase) ToggleSelection(ctx context.Context, id, variantID string) ([]string, error) {
	var selected []string
	err := uc.mutate(id, func(s *Session) error {
		snap, err := s.store.ToggleSelection(variantID)
		if err != nil {
			return err
		}
		selected = snap.SelectedIDs()
		return nil
	})
	return selected, err
}

// ToggleSelectAll selects the filtered view, or clears the selection when the
// view is already fully selected.
func (uc *VariantEditorUsecase) ToggleSelectAll(ctx context.Context, id string, f domain.VariantFilter) ([]string, error) {
	var selected []string
	err := uc.mutate(id, func(s *Session) error {
		selected = s.store.ToggleSelectAll(f).SelectedIDs()
		return nil
	})
	return selected, err
}

func (uc *VariantEditorUsecase) ClearSelection(ctx context.Context, id string) error {
	return uc.mutate(id, func(s *Session) error {
		s.store.ClearSelection()
		return nil
	})
}

// BulkEdit applies the sparse form to every selected variant.
func (uc *VariantEditorUsecase) BulkEdit(ctx context.Context, id string, form domain.BulkEditForm) (BulkResult, error) {
	var res BulkResult
	err := uc.mutate(id, func(s *Session) error {
		snap, n, rejected := s.store.BulkEditForm(form)
		res = BulkResult{Affected: n, RejectedFields: rejected, Revision: snap.Revision}
		if len(rejected) > 0 {
			s.log.Warn().Strs("fields", rejected).Msg("Bulk edit ignored unparsable fields")
		}
		return nil
	})
	return res, err
}

func (uc *VariantEditorUsecase) BulkSetActive(ctx context.Context, id string, active bool) (BulkResult, error) {
	var res BulkResult
	err := uc.mutate(id, func(s *Session) error {
		snap, n := s.store.SetActive(active)
		res = BulkResult{Affected: n, Revision: snap.Revision}
		return nil
	})
	return res, err
}

func (uc *VariantEditorUsecase) BulkDelete(ctx context.Context, id string) (BulkResult, error) {
	var res BulkResult
	err := uc.mutate(id, func(s *Session) error {
		snap, n := s.store.DeleteSelected()
		res = BulkResult{Affected: n, Revision: snap.Revision}
		s.log.Info().Int("deleted", n).Msg("Deleted selected variants")
		return nil
	})
	return res, err
}

func (uc *VariantEditorUsecase) DuplicateVariant(ctx context.Context, id, variantID string) (domain.Variant, error) {
	var dup domain.Variant
	err := uc.mutate(id, func(s *Session) error {
		var err error
		_, dup, err = s.store.Duplicate(variantID)
		return err
	})
	return dup, err
}

func (uc *VariantEditorUsecase) DeleteVariant(ctx context.Context, id, variantID string) error {
	return uc.mutate(id, func(s *Session) error {
		_, err := s.store.Delete(variantID)
		return err
	})
}

func (uc *VariantEditorUsecase) GetVariant(ctx context.Context, id, variantID string) (domain.Variant, error) {
	s, err := uc.session(id)
	if err != nil {
		return domain.Variant{}, err
	}
	return s.store.Editor(variantID).Variant()
}

// EditVariant runs one detail-editor operation on a variant.
func (uc *VariantEditorUsecase) EditVariant(ctx context.Context, id, variantID string, op func(e *collection.DetailEditor) (domain.Variant, error)) (domain.Variant, error) {
	var out domain.Variant
	err := uc.mutate(id, func(s *Session) error {
		var err error
		out, err = op(s.store.Editor(variantID))
		return err
	})
	return out, err
}

func (uc *VariantEditorUsecase) UpdateVariant(ctx context.Context, id, variantID string, patch domain.VariantPatch) (domain.Variant, error) {
	return uc.EditVariant(ctx, id, variantID, func(e *collection.DetailEditor) (domain.Variant, error) {
		return e.Apply(patch)
	})
}

func (uc *VariantEditorUsecase) AddImage(ctx context.Context, id, variantID, ref string) (domain.Variant, error) {
	return uc.EditVariant(ctx, id, variantID, func(e *collection.DetailEditor) (domain.Variant, error) {
		return e.AddImage(ref)
	})
}

func (uc *VariantEditorUsecase) RemoveImage(ctx context.Context, id, variantID string, index int) (domain.Variant, error) {
	return uc.EditVariant(ctx, id, variantID, func(e *collection.DetailEditor) (domain.Variant, error) {
		return e.RemoveImage(index)
	})
}

func (uc *VariantEditorUsecase) MoveImage(ctx context.Context, id, variantID string, from, to int) (domain.Variant, error) {
	return uc.EditVariant(ctx, id, variantID, func(e *collection.DetailEditor) (domain.Variant, error) {
		return e.MoveImage(from, to)
	})
}

func (uc *VariantEditorUsecase) SetChannel(ctx context.Context, id, variantID string, c domain.SalesChannel, enabled bool) (domain.Variant, error) {
	return uc.EditVariant(ctx, id, variantID, func(e *collection.DetailEditor) (domain.Variant, error) {
		return e.SetChannel(c, enabled)
	})
}
