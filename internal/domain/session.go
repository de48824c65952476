package domain

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Session holds the authenticated state of the desk. A zero token means the
// desk is anonymous. Sessions are replaced wholesale on every successful auth
// response, never field by field.
type Session struct {
	Token        string `json:"token"`
	Role         Role   `json:"role"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	MobileNumber string `json:"mobileNumber"`
	TenantID     string `json:"tenantId"`
}

// Authenticated reports whether the session carries a bearer token.
func (s Session) Authenticated() bool { return s.Token != "" }

// IsAdmin reports whether the session belongs to a privileged operator.
func (s Session) IsAdmin() bool { return s.Token != "" && s.Role == RoleAdmin }
