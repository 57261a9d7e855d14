package cascade

import "github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"

// ControllerOption configura el Controller al construirlo
type ControllerOption func(*Controller)

// WithValue fija el valor controlado inicial (registro guardado)
func WithValue(v AddressValue) ControllerOption {
	return func(c *Controller) {
		c.value = v
	}
}

// WithOnChange registra el callback hacia el formulario padre
func WithOnChange(fn func(AddressValue)) ControllerOption {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithDisabled deshabilita los cuatro selectores de entrada
func WithDisabled(disabled bool) ControllerOption {
	return func(c *Controller) {
		c.disabled = disabled
	}
}

// WithInitialSubDistrict siembra el kecamatan local cuando el caller ya lo
// conoce, evitando el lookup de reconciliación
func WithInitialSubDistrict(id kernel.RegionID) ControllerOption {
	return func(c *Controller) {
		c.initialSub = id
	}
}

// WithLabelPrefix antepone un prefijo cosmético a las etiquetas de los
// selectores ("Alamat Keluarga Provinsi", etc.)
func WithLabelPrefix(prefix string) ControllerOption {
	return func(c *Controller) {
		c.labelPrefix = prefix
	}
}
