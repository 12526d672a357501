package app

import (
	"errors"
	"fmt"

	apperrors "github.com/mnasrulloh/portfolio/internal/platform/errors"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/storage"
)

// Caller-facing messages.
const (
	MsgProjectFieldsRequired = "Name, link, and description are required"
	MsgInvalidID             = "Invalid id"
	MsgProjectNotFound       = "Project not found"
	MsgContentRequired       = "Content is required"
	MsgImageFormat           = "Format gambar tidak didukung. Gunakan JPG, PNG, atau WebP."
	MsgImageTooLarge         = "Ukuran gambar terlalu besar (maks 5MB)."
	// MsgStoreSetup tells the operator the schema has not been applied.
	MsgStoreSetup = "Database belum diinisialisasi/diupdate. Jalankan portfolio dengan PORTFOLIO_DB_AUTO_MIGRATE=true."
)

// storeError classifies a storage failure for op.
func storeError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrUnavailable):
		return apperrors.Wrap(apperrors.KindStoreUnavailable, MsgStoreSetup, err)
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(apperrors.KindNotFound, MsgProjectNotFound, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
