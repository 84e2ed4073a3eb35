package internaldefs

import (
	authkit "github.com/MrEthical07/authkit"
)

// CounterDef defines a public type used by authkit APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authkit.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication engine.
var CounterDefs = []CounterDef{
	{ID: authkit.MetricLoginSuccess, Name: "authkit_login_success_total", Help: "Successful login operations."},
	{ID: authkit.MetricLoginFailure, Name: "authkit_login_failure_total", Help: "Failed login operations."},
	{ID: authkit.MetricAuthenticateSuccess, Name: "authkit_authenticate_success_total", Help: "Requests that passed the full authentication pipeline."},
	{ID: authkit.MetricAuthenticateFailure, Name: "authkit_authenticate_failure_total", Help: "Requests rejected by the authentication pipeline."},
	{ID: authkit.MetricTokenRejected, Name: "authkit_token_rejected_total", Help: "Tokens rejected during signature or claim verification."},
	{ID: authkit.MetricTokenRevokedHit, Name: "authkit_token_revoked_hit_total", Help: "Requests rejected by the token blacklist."},
	{ID: authkit.MetricSessionRejected, Name: "authkit_session_rejected_total", Help: "Requests rejected by session validation."},
	{ID: authkit.MetricDeviceRejected, Name: "authkit_device_rejected_total", Help: "Requests rejected by device binding enforcement."},
	{ID: authkit.MetricSessionCreated, Name: "authkit_session_created_total", Help: "Created sessions."},
	{ID: authkit.MetricSessionInvalidated, Name: "authkit_session_invalidated_total", Help: "Invalidated sessions (logout, kick-out, disable)."},
	{ID: authkit.MetricLogout, Name: "authkit_logout_total", Help: "Logout operations."},
	{ID: authkit.MetricRateLimitHit, Name: "authkit_rate_limit_hit_total", Help: "Rate-limit checks that denied requests."},
	{ID: authkit.MetricTokenRevoked, Name: "authkit_token_revoked_total", Help: "Tokens added to the blacklist."},
	{ID: authkit.MetricStoreFailOpen, Name: "authkit_store_fail_open_total", Help: "Rate-limit checks admitted despite a counter-store failure."},
}
