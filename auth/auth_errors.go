package auth

// Messages of the errors returned by Client.
const (
	notAuthorizedMsg    = "The OAuth client is not authorized"
	refreshForbiddenMsg = "The client needs to be authorized to generate a new access token"
	revokeForbiddenMsg  = "The client needs to be authorized to revoke the refresh token"
	createFailedMsg     = "Failed to generate an access token and a refresh token"
	refreshFailedMsg    = "Failed to refresh the access token"
	revokeFailedMsg     = "Failed to revoke the refresh token"
	persistFailedMsg    = "failed to persist token"
	invalidResponseMsg  = "invalid response body"
	deleteFailedLogMsg  = "Failed to delete revoked token"
	persistFailedLogMsg = "Failed to save refreshed token"
)
