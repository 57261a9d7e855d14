package authx

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/config"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/errx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeUnauthorized = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthentication, http.StatusUnauthorized, "Autenticación requerida")
	CodeTokenInvalid = ErrRegistry.Register("TOKEN_INVALID", errx.TypeAuthentication, http.StatusUnauthorized, "Token inválido o expirado")
	CodeForbidden    = ErrRegistry.Register("FORBIDDEN", errx.TypeAuthorization, http.StatusForbidden, "Permisos insuficientes")
)

func ErrUnauthorized() *errx.Error {
	return ErrRegistry.New(CodeUnauthorized)
}

func ErrTokenInvalid() *errx.Error {
	return ErrRegistry.New(CodeTokenInvalid)
}

func ErrForbidden() *errx.Error {
	return ErrRegistry.New(CodeForbidden)
}

// ============================================================================
// Token Verification
// ============================================================================

// TokenClaims son los claims relevantes de un access token verificado
type TokenClaims struct {
	StaffID   kernel.StaffID
	Email     string
	Name      string
	Scopes    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// jwtClaims es la forma en el wire de los tokens del servicio de auth externo
type jwtClaims struct {
	StaffID string   `json:"staff_id"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Scopes  []string `json:"scopes"`
	jwt.RegisteredClaims
}

// TokenVerifier valida access tokens HS256 emitidos por el servicio de
// autenticación externo. Este backend no genera tokens.
type TokenVerifier struct {
	secretKey []byte
	issuer    string
	audience  []string
}

// NewTokenVerifierFromConfig crea un verificador desde la configuración
func NewTokenVerifierFromConfig(cfg *config.JWTConfig) *TokenVerifier {
	return &TokenVerifier{
		secretKey: []byte(cfg.SecretKey),
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
	}
}

// VerifyAccessToken valida y decodifica un access token
func (v *TokenVerifier) VerifyAccessToken(tokenString string) (*TokenClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if len(v.audience) > 0 {
		opts = append(opts, jwt.WithAudience(v.audience[0]))
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secretKey, nil
	}, opts...)
	if err != nil {
		return nil, ErrTokenInvalid().WithDetail("error", err.Error())
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid().WithDetail("error", "invalid claims type")
	}

	scopes := claims.Scopes
	if scopes == nil {
		scopes = []string{}
	}

	tc := &TokenClaims{
		StaffID: kernel.NewStaffID(claims.StaffID),
		Email:   claims.Email,
		Name:    claims.Name,
		Scopes:  scopes,
	}
	if claims.IssuedAt != nil {
		tc.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		tc.ExpiresAt = claims.ExpiresAt.Time
	}
	return tc, nil
}

// ============================================================================
// Fiber Middleware
// ============================================================================

const localsKey = "auth"

// Middleware autentica requests de staff con bearer tokens
type Middleware struct {
	verifier *TokenVerifier
}

func NewMiddleware(verifier *TokenVerifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// Authenticate exige un bearer token válido y adjunta el AuthContext
func (m *Middleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return ErrUnauthorized()
		}

		claims, err := m.verifier.VerifyAccessToken(token)
		if err != nil {
			return err
		}

		c.Locals(localsKey, &kernel.AuthContext{
			StaffID: claims.StaffID,
			Email:   claims.Email,
			Name:    claims.Name,
			Scopes:  claims.Scopes,
		})
		return c.Next()
	}
}

// RequireScope exige un scope específico además de la autenticación
func (m *Middleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := GetAuthContext(c)
		if !ok {
			return ErrUnauthorized()
		}
		if !authContext.HasScope(scope) {
			return ErrForbidden().WithDetail("required_scope", scope)
		}
		return c.Next()
	}
}

// GetAuthContext obtiene la identidad autenticada del request
func GetAuthContext(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	authContext, ok := c.Locals(localsKey).(*kernel.AuthContext)
	return authContext, ok
}

func extractBearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1]
		}
	}
	// SPA sessions arrive as an http-only cookie instead
	return c.Cookies("access_token")
}
