package errorutil_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func TestHasCode(t *testing.T) {
	err := errorutil.NewPermissionDenied("nope")
	require.True(t, errorutil.HasCode(err, errorutil.CodePermissionDenied))
	require.False(t, errorutil.HasCode(err, errorutil.CodeNotFound))
	require.False(t, errorutil.HasCode(errors.New("plain"), errorutil.CodePermissionDenied))

	wrapped := fmt.Errorf("context: %w", err)
	require.True(t, errorutil.HasCode(wrapped, errorutil.CodePermissionDenied))
}

func TestToDomainErrorMapsDeadline(t *testing.T) {
	de := errorutil.ToDomainError(context.DeadlineExceeded)
	require.Equal(t, errorutil.CodeTimeout, de.Code)
	require.Equal(t, http.StatusGatewayTimeout, de.HTTPStatus)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("boom")
	de := errorutil.ToDomainError(cause)
	require.Equal(t, errorutil.CodeInternal, de.Code)
	require.ErrorIs(t, de, cause)
}

func TestStoreErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := errorutil.NewStoreError(cause)
	require.True(t, errorutil.HasCode(err, errorutil.CodeStoreError))
	require.ErrorIs(t, err, cause)
}

func TestInvalidTransitionDetails(t *testing.T) {
	err := errorutil.NewInvalidTransition("Closed", "Open")
	var de *errorutil.DomainError
	require.ErrorAs(t, err, &de)
	require.Equal(t, http.StatusConflict, de.HTTPStatus)
	require.Equal(t, "Closed", de.Details["from"])
	require.Equal(t, "Open", de.Details["to"])
}
