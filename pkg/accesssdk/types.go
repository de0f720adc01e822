package accesssdk

// ErrorResponse is the JSON error envelope every endpoint uses.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// InviteRequest creates a new invite. Areas is required when RoleID is
// "collaborator" and ignored otherwise. MindID optionally associates a Mind
// to attach when the invite is accepted. ExpiresDays defaults to 7.
type InviteRequest struct {
	Email       string   `json:"email"`
	RoleID      string   `json:"role_id"`
	Areas       []string `json:"areas,omitempty"`
	Message     string   `json:"message,omitempty"`
	MindID      string   `json:"mind_id,omitempty"`
	ExpiresDays int      `json:"expires_days,omitempty"`
}

// InviteResponse is returned from invite creation. InviteURL embeds the raw
// invite token and is shown exactly once; Delivered reports whether the
// email notification went out (false means share the URL manually).
type InviteResponse struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	RoleID    string   `json:"role_id"`
	Areas     []string `json:"areas,omitempty"`
	InviteURL string   `json:"invite_url"`
	ExpiresAt int64    `json:"expires_at"`
	Delivered bool     `json:"delivered"`
}

// InviteSummary is a pending invite as listed by GET /v1/invites. It never
// carries the token or its fingerprint.
type InviteSummary struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	RoleID        string   `json:"role_id"`
	Areas         []string `json:"areas,omitempty"`
	Message       string   `json:"message,omitempty"`
	MindID        string   `json:"mind_id,omitempty"`
	InvitedBy     string   `json:"invited_by"`
	Status        string   `json:"status"`
	ExpiresAt     int64    `json:"expires_at"`
	DaysRemaining int      `json:"days_remaining"`
	CreatedAt     int64    `json:"created_at"`
}

// ListInvitesResponse wraps the pending invite listing.
type ListInvitesResponse struct {
	Invites []InviteSummary `json:"invites"`
}

// SignupRequest redeems an invite token into an account.
type SignupRequest struct {
	InviteToken string `json:"invite_token"`
	Name        string `json:"name"`
	Password    string `json:"password"`
}

// SignupResponse confirms the provisioned account.
type SignupResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// UserAccess is the per-user access view: account plus effective role,
// areas and mind link.
type UserAccess struct {
	UserID    string   `json:"user_id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	RoleID    string   `json:"role_id,omitempty"`
	Areas     []string `json:"areas,omitempty"`
	MindID    string   `json:"mind_id,omitempty"`
	CreatedAt int64    `json:"created_at"`
}

// ListUsersResponse wraps the user listing.
type ListUsersResponse struct {
	Users []UserAccess `json:"users"`
}

// UpdateAccessRequest sets a user's desired access state. A nil RoleID
// revokes the global role; an empty MindID removes the mind link.
type UpdateAccessRequest struct {
	RoleID *string  `json:"role_id"`
	Areas  []string `json:"areas,omitempty"`
	MindID string   `json:"mind_id,omitempty"`
}

// Role is a catalog entry. Assignable reports whether the calling user may
// hand this role out.
type Role struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name"`
	HierarchyLevel int    `json:"hierarchy_level"`
	Assignable     bool   `json:"assignable"`
}

// ListRolesResponse wraps the role catalog together with the closed area
// set.
type ListRolesResponse struct {
	Roles []Role   `json:"roles"`
	Areas []string `json:"areas"`
}

// BootstrapRequest provisions the initial owner account. Token is the
// shared secret configured on the server.
type BootstrapRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// BootstrapResponse confirms the owner account.
type BootstrapResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Version string        `json:"version,omitempty"`
	Uptime  string        `json:"uptime,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}
