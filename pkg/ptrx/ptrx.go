package ptrx

// Helpers para obtener punteros a literales

func String(s string) *string {
	return &s
}

// Of devuelve un puntero a cualquier valor
func Of[T any](v T) *T {
	return &v
}
