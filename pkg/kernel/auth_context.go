package kernel

// AuthContext es la identidad autenticada adjunta a cada request.
// La emite el servicio de autenticación externo; aquí solo se verifica.
type AuthContext struct {
	StaffID StaffID  `json:"staff_id"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Scopes  []string `json:"scopes"`
}

// HasScope verifica un scope exacto o por wildcard ("*", "applicants:*")
func (a *AuthContext) HasScope(scope string) bool {
	for _, s := range a.Scopes {
		if s == scope || s == "*" {
			return true
		}
		if len(s) > 2 && s[len(s)-2:] == ":*" {
			prefix := s[:len(s)-2]
			if len(scope) > len(prefix) && scope[:len(prefix)] == prefix && scope[len(prefix)] == ':' {
				return true
			}
		}
	}
	return false
}
