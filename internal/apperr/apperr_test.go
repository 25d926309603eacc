package apperr_test

import (
	"errors"
	"testing"

	"github.com/campfire-dev/campfire/internal/apperr"
)

func TestStorageKeepsCauseUnwrappable(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Storage(cause)

	if !errors.Is(err, apperr.ErrStorage) {
		t.Errorf("errors.Is(err, ErrStorage) = false")
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false; the cause is lost")
	}
}

func TestDomainSentinelsUnwrapToTaxonomy(t *testing.T) {
	if !errors.Is(apperr.ErrLeaderCannotLeave, apperr.ErrForbidden) {
		t.Errorf("ErrLeaderCannotLeave does not unwrap to ErrForbidden")
	}
	if !errors.Is(apperr.ErrProjectNotOpen, apperr.ErrConflict) {
		t.Errorf("ErrProjectNotOpen does not unwrap to ErrConflict")
	}
	if !errors.Is(apperr.Validationf("bad %s", "field"), apperr.ErrValidation) {
		t.Errorf("Validationf does not unwrap to ErrValidation")
	}
	if !errors.Is(apperr.NotFoundf("post"), apperr.ErrNotFound) {
		t.Errorf("NotFoundf does not unwrap to ErrNotFound")
	}
}
