package apierrors_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/Tracktor/zoho-crm/apierrors"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusAccepted}
	body := []byte(`{"data":[]}`)

	t.Run("invalid data", func(t *testing.T) {
		err := apierrors.Build("", apierrors.ErrorPayload{
			Code:    "INVALID_DATA",
			Details: map[string]any{"api_name": "First_Name"},
			Status:  "error",
		}, http.StatusAccepted, resp, body)

		var invalid *apierrors.InvalidDataError
		require.True(t, errors.As(err, &invalid))
		require.Equal(t, "First_Name", invalid.FieldName)
		require.Equal(t, http.StatusAccepted, invalid.StatusCode)
		require.Same(t, resp, invalid.Response)
		require.Equal(t, body, invalid.Body)
		require.Equal(t,
			`Zoho CRM API error -- code: "INVALID_DATA" - HTTP status code: 202 - Invalid data for field: "First_Name"`,
			err.Error())

		var apiErr *apierrors.APIRequestError
		require.True(t, errors.As(err, &apiErr))
		require.False(t, errors.Is(err, apierrors.ErrHTTP))
	})

	t.Run("invalid data without field", func(t *testing.T) {
		err := apierrors.Build("", apierrors.ErrorPayload{Code: "INVALID_DATA"}, http.StatusBadRequest, nil, nil)

		var invalid *apierrors.InvalidDataError
		require.True(t, errors.As(err, &invalid))
		require.Empty(t, invalid.FieldName)
		require.NotNil(t, invalid.Details)
		require.Equal(t, `Zoho CRM API error -- code: "INVALID_DATA" - HTTP status code: 400`, err.Error())
	})

	t.Run("duplicate data", func(t *testing.T) {
		err := apierrors.Build("", apierrors.ErrorPayload{
			Code:    "DUPLICATE_DATA",
			Details: map[string]any{"api_name": "Email", "id": "42"},
		}, http.StatusBadRequest, nil, nil)

		var dup *apierrors.DuplicateDataError
		require.True(t, errors.As(err, &dup))
		require.Equal(t, "Email", dup.FieldName)
		require.Equal(t, "42", dup.Details["id"])
		require.Equal(t, `Duplicate data for field: "Email"`, err.Error())
	})

	t.Run("duplicate data without api_name", func(t *testing.T) {
		err := apierrors.Build("", apierrors.ErrorPayload{
			Code:    "DUPLICATE_DATA",
			Details: map[string]any{"id": "42"},
		}, http.StatusAccepted, nil, nil)

		var lookup *apierrors.DetailLookupError
		require.True(t, errors.As(err, &lookup))
		require.Equal(t, "DUPLICATE_DATA", lookup.ErrorCode)
		require.Equal(t, "api_name", lookup.Key)
		require.Equal(t, `DUPLICATE_DATA error details: key not found: "api_name"`, err.Error())

		var apiErr *apierrors.APIRequestError
		require.False(t, errors.As(err, &apiErr))
	})

	t.Run("other code", func(t *testing.T) {
		err := apierrors.Build("", apierrors.ErrorPayload{
			Code:    "MANDATORY_NOT_FOUND",
			Details: map[string]any{"api_name": "Last_Name"},
		}, http.StatusBadRequest, nil, nil)

		var apiErr *apierrors.APIRequestError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, "MANDATORY_NOT_FOUND", apiErr.ErrorCode)
		require.Equal(t,
			`Zoho CRM API error -- code: "MANDATORY_NOT_FOUND" - HTTP status code: 400 - Field API Name: "Last_Name"`,
			err.Error())

		var invalid *apierrors.InvalidDataError
		require.False(t, errors.As(err, &invalid))
	})

	t.Run("message override", func(t *testing.T) {
		err := apierrors.Build("record rejected", apierrors.ErrorPayload{Code: "INVALID_DATA"}, http.StatusBadRequest, nil, nil)
		require.EqualError(t, err, "record rejected")
	})
}

func TestUnauthorized(t *testing.T) {
	err := &apierrors.APIRequestError{ErrorCode: "INVALID_TOKEN", StatusCode: http.StatusUnauthorized}
	require.True(t, err.Unauthorized())

	err.StatusCode = http.StatusForbidden
	require.False(t, err.Unauthorized())
}
