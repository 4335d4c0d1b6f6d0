package integrity

import (
	"context"

	"github.com/storeops/storeconsole/internal/domain"
	"go.uber.org/zap"
)

// ProductRemover issues the destructive call to the product service.
type ProductRemover interface {
	Delete(ctx context.Context, id int64) error
}

// ConflictChecker is the guard as seen by the coordinator.
type ConflictChecker interface {
	CheckConflicts(ctx context.Context, productID int64) (*ConflictResult, error)
}

// OutcomeKind discriminates the possible results of a safe delete.
type OutcomeKind string

const (
	// OutcomeDeleted: guard passed and the delete call succeeded.
	OutcomeDeleted OutcomeKind = "deleted"
	// OutcomeBlocked: the check completed and found referencing orders.
	// This is a normal result, not an error; the product is untouched.
	OutcomeBlocked OutcomeKind = "blocked"
	// OutcomeGuardUnavailable: the check itself could not complete. No
	// delete was attempted. Retryable.
	OutcomeGuardUnavailable OutcomeKind = "guard_unavailable"
	// OutcomeDeleteFailed: the delete call failed after a clean check.
	// State is unknown; the caller must refresh before retrying.
	OutcomeDeleteFailed OutcomeKind = "delete_failed"
)

// Outcome is the typed result of DeleteProductSafely. Callers switch on
// Kind; the remaining fields are populated per kind.
type Outcome struct {
	Kind        OutcomeKind    `json:"kind"`
	ProductID   int64          `json:"product_id"`
	Label       string         `json:"label,omitempty"`
	Conflicting []domain.Order `json:"conflicting,omitempty"`
	Err         error          `json:"-"`
	Reason      string         `json:"reason,omitempty"`
}

// Coordinator runs the two-phase {check, delete} sequence as one logical
// operation. The phases are two uncoordinated network calls: between the
// clean check and the delete, a new order may reference the product or the
// product may disappear. That window cannot be closed from here, only kept
// narrow; a delete that fails inside it surfaces as OutcomeDeleteFailed.
//
// Concurrent invocations for different products are independent. Two
// concurrent invocations for the same product are not serialized; the
// trigger (presentation layer) is expected to disable double submission.
type Coordinator struct {
	guard    ConflictChecker
	products ProductRemover
}

func NewCoordinator(guard ConflictChecker, products ProductRemover) *Coordinator {
	return &Coordinator{guard: guard, products: products}
}

// DeleteProductSafely checks for referencing orders and deletes the product
// only on a clean check. The delete is never issued before the check of the
// same invocation resolves, and never issued at all when the check fails or
// blocks.
func (c *Coordinator) DeleteProductSafely(ctx context.Context, productID int64, label string) Outcome {
	res, err := c.guard.CheckConflicts(ctx, productID)
	if err != nil {
		return Outcome{
			Kind:      OutcomeGuardUnavailable,
			ProductID: productID,
			Label:     label,
			Err:       err,
			Reason:    err.Error(),
		}
	}

	if res.Blocked {
		zap.L().Info("product deletion blocked by referencing orders",
			zap.Int64("product_id", productID),
			zap.String("label", label),
			zap.Int("conflicts", len(res.Conflicting)),
		)
		return Outcome{
			Kind:        OutcomeBlocked,
			ProductID:   productID,
			Label:       label,
			Conflicting: res.Conflicting,
		}
	}

	if err := c.products.Delete(ctx, productID); err != nil {
		return Outcome{
			Kind:      OutcomeDeleteFailed,
			ProductID: productID,
			Label:     label,
			Err:       err,
			Reason:    err.Error(),
		}
	}

	zap.L().Info("product deleted",
		zap.Int64("product_id", productID),
		zap.String("label", label),
	)
	return Outcome{Kind: OutcomeDeleted, ProductID: productID, Label: label}
}
