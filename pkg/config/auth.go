package config

// AuthConfig cubre la verificación de tokens emitidos por el servicio de
// autenticación externo. Este backend nunca emite sesiones, solo las valida.
type AuthConfig struct {
	JWT JWTConfig
}

type JWTConfig struct {
	SecretKey string
	Issuer    string
	Audience  []string
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", ""),
			Issuer:    getEnv("JWT_ISSUER", "kms-connect-auth"),
			Audience:  getEnvStringSlice("JWT_AUDIENCE", []string{"kms-connect"}),
		},
	}
}
