package cascade

import (
	"context"
	"sync"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/ptrx"
)

// ============================================================================
// Region Address Cascade
// ============================================================================
//
// Four dependent selectors — Provinsi → Kabupaten/Kota → Kecamatan →
// Kelurahan/Desa — backing the applicant biodata address forms (self and
// family address are independent instances).
//
// The persisted value carries province, district (the regency level) and
// village only. The kecamatan is cascade-local state: it narrows the village
// list but never reaches the business record. When a saved record is opened,
// the missing kecamatan is backfilled from the known village by a single
// best-effort lookup (see reconcile.go).

// AddressValue es el valor controlado que el formulario padre posee.
// nil means unset. If Village is set, the containing District and Province
// should be set and consistent; the type does not enforce it — the controller
// maintains it for every value it emits.
type AddressValue struct {
	Province *kernel.RegionID `json:"province"`
	District *kernel.RegionID `json:"district"` // regency ("Kabupaten/Kota")
	Village  *kernel.RegionID `json:"village"`
}

// IsEmpty indica si los tres niveles están sin asignar
func (v AddressValue) IsEmpty() bool {
	return v.Province == nil && v.District == nil && v.Village == nil
}

// Equal compara por valor (no por identidad de punteros)
func (v AddressValue) Equal(o AddressValue) bool {
	return idEqual(v.Province, o.Province) &&
		idEqual(v.District, o.District) &&
		idEqual(v.Village, o.Village)
}

func idEqual(a, b *kernel.RegionID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// idPtr traduce el valor cero a "sin selección"
func idPtr(id kernel.RegionID) *kernel.RegionID {
	if id.IsZero() {
		return nil
	}
	return ptrx.Of(id)
}

// Level identifica uno de los cuatro selectores del widget
type Level int

const (
	LevelProvince    Level = iota
	LevelDistrict          // regency level, persisted as "district"
	LevelSubDistrict       // kecamatan, cascade-only
	LevelVillage
)

func (l Level) String() string {
	switch l {
	case LevelProvince:
		return "province"
	case LevelDistrict:
		return "district"
	case LevelSubDistrict:
		return "sub_district"
	case LevelVillage:
		return "village"
	default:
		return "unknown"
	}
}

// Controller coordina los cuatro selectores del cascade.
//
// The parent form owns the AddressValue; the controller mirrors it and
// mutates it exclusively through the onChange callback, which fires
// synchronously on every change, cascaded clears included. The controller
// itself owns only the ephemeral kecamatan selection and the per-level
// option lists.
type Controller struct {
	dir         Directory
	onChange    func(AddressValue)
	labelPrefix string

	mu          sync.Mutex
	value       AddressValue
	subDistrict kernel.RegionID // 0 = unset; never part of the emitted value
	disabled    bool
	backfill    backfillState
	initialSub  kernel.RegionID

	provinces    *levelQuery
	regencies    *levelQuery
	subDistricts *levelQuery
	villages     *levelQuery

	pending sync.WaitGroup
}

// NewController crea un cascade sobre el directorio dado
func NewController(dir Directory, opts ...ControllerOption) *Controller {
	c := &Controller{
		dir: dir,
	}

	c.provinces = newLevelQuery(func(ctx context.Context, _ kernel.RegionID) ([]Option, error) {
		return dir.Provinces(ctx, "")
	}, true)
	c.regencies = newLevelQuery(func(ctx context.Context, parentID kernel.RegionID) ([]Option, error) {
		return dir.Regencies(ctx, parentID, "")
	}, false)
	c.subDistricts = newLevelQuery(func(ctx context.Context, parentID kernel.RegionID) ([]Option, error) {
		return dir.Districts(ctx, parentID, "")
	}, false)
	c.villages = newLevelQuery(func(ctx context.Context, parentID kernel.RegionID) ([]Option, error) {
		return dir.Villages(ctx, parentID, "")
	}, false)

	for _, opt := range opts {
		opt(c)
	}

	// a caller-supplied kecamatan seed makes the backfill unnecessary
	if !c.initialSub.IsZero() {
		c.subDistrict = c.initialSub
		c.backfill = backfillResolved
	}

	return c
}

// Start dispara las cargas iniciales según el valor recibido.
// Loading a saved record jumps straight to "village set"; the kecamatan is
// reconciled asynchronously without blocking anything.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	province := c.value.Province
	district := c.value.District
	sub := c.subDistrict
	c.mu.Unlock()

	c.refresh(ctx, c.provinces, 0)
	if province != nil {
		c.refresh(ctx, c.regencies, *province)
	}
	if district != nil {
		c.refresh(ctx, c.subDistricts, *district)
	}
	if !sub.IsZero() {
		c.refresh(ctx, c.villages, sub)
	}

	c.maybeBackfill(ctx)
}

// refresh repuebla un nivel sin bloquear al caller
func (c *Controller) refresh(ctx context.Context, q *levelQuery, parentID kernel.RegionID) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		q.Refresh(ctx, parentID)
	}()
}

// WaitForIdle bloquea hasta que no queden requests en vuelo (para tests y
// consumidores server-side síncronos)
func (c *Controller) WaitForIdle() {
	c.pending.Wait()
}

// emit entrega el nuevo valor al formulario padre
func (c *Controller) emit(v AddressValue) {
	if c.onChange != nil {
		c.onChange(v)
	}
}

// ============================================================================
// Selection operations
// ============================================================================
//
// Child-clearing is synchronous with the parent change, never deferred, and
// clearing a level (id 0) follows the same rules as selecting a concrete id.

// SetProvince selecciona la provincia; limpia kabupaten, kecamatan y kelurahan
func (c *Controller) SetProvince(ctx context.Context, id kernel.RegionID) {
	c.mu.Lock()
	if c.disabled {
		c.mu.Unlock()
		return
	}
	c.value.Province = idPtr(id)
	c.value.District = nil
	c.value.Village = nil
	c.subDistrict = 0
	c.backfill = backfillIdle
	v := c.value
	c.mu.Unlock()

	c.refresh(ctx, c.regencies, id)
	c.subDistricts.Reset()
	c.villages.Reset()

	c.emit(v)
}

// SetDistrict selecciona el kabupaten/kota; limpia kecamatan y kelurahan.
// The kecamatan's request key just changed, so any previous kecamatan
// selection is invalid and is reset explicitly.
func (c *Controller) SetDistrict(ctx context.Context, id kernel.RegionID) {
	c.mu.Lock()
	if c.disabled {
		c.mu.Unlock()
		return
	}
	c.value.District = idPtr(id)
	c.value.Village = nil
	c.subDistrict = 0
	c.backfill = backfillIdle
	v := c.value
	c.mu.Unlock()

	c.refresh(ctx, c.subDistricts, id)
	c.villages.Reset()

	c.emit(v)
}

// SetSubDistrict selecciona el kecamatan (solo estado local); limpia kelurahan
func (c *Controller) SetSubDistrict(ctx context.Context, id kernel.RegionID) {
	c.mu.Lock()
	if c.disabled {
		c.mu.Unlock()
		return
	}
	c.subDistrict = id
	clearedVillage := c.value.Village != nil
	c.value.Village = nil
	v := c.value
	c.mu.Unlock()

	c.refresh(ctx, c.villages, id)

	// the kecamatan itself is not part of the value; only a cascaded
	// village clear reaches the parent
	if clearedVillage {
		c.emit(v)
	}
}

// SetVillage selecciona la kelurahan/desa (nivel hoja, sin cascada)
func (c *Controller) SetVillage(id kernel.RegionID) {
	c.mu.Lock()
	if c.disabled {
		c.mu.Unlock()
		return
	}
	c.value.Village = idPtr(id)
	v := c.value
	c.mu.Unlock()

	c.emit(v)
}

// SetValue recibe un nuevo valor controlado desde el formulario padre
// (edición de un registro guardado, reset del formulario, etc.)
func (c *Controller) SetValue(ctx context.Context, v AddressValue) {
	c.mu.Lock()
	old := c.value
	c.value = v

	districtChanged := !idEqual(old.District, v.District)
	if districtChanged {
		c.subDistrict = 0
		c.backfill = backfillIdle
	}

	province := v.Province
	district := v.District
	c.mu.Unlock()

	if !idEqual(old.Province, v.Province) {
		if province != nil {
			c.refresh(ctx, c.regencies, *province)
		} else {
			c.regencies.Reset()
		}
	}
	if districtChanged {
		if district != nil {
			c.refresh(ctx, c.subDistricts, *district)
		} else {
			c.subDistricts.Reset()
		}
		c.villages.Reset()
	}

	c.maybeBackfill(ctx)
}

// SetDisabled habilita/deshabilita los cuatro selectores de manera uniforme
func (c *Controller) SetDisabled(disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = disabled
}

// ============================================================================
// Read accessors
// ============================================================================

// Value devuelve el valor controlado vigente
func (c *Controller) Value() AddressValue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// SubDistrict devuelve el kecamatan local (0 = sin resolver)
func (c *Controller) SubDistrict() kernel.RegionID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subDistrict
}

func (c *Controller) query(level Level) *levelQuery {
	switch level {
	case LevelProvince:
		return c.provinces
	case LevelDistrict:
		return c.regencies
	case LevelSubDistrict:
		return c.subDistricts
	default:
		return c.villages
	}
}

// Options devuelve los candidatos actuales de un nivel
func (c *Controller) Options(level Level) []Option {
	return c.query(level).Options()
}

// Loading indica si el nivel tiene un fetch en vuelo
func (c *Controller) Loading(level Level) bool {
	return c.query(level).Loading()
}

// LevelErr devuelve el error del último fetch del nivel (nil si está sano)
func (c *Controller) LevelErr(level Level) error {
	return c.query(level).Err()
}

// Enabled indica si el selector de un nivel acepta interacción.
// A level is disabled while its request key (the parent selection) is unset;
// province has no parent and is only subject to the uniform disabled switch.
func (c *Controller) Enabled(level Level) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled {
		return false
	}
	switch level {
	case LevelProvince:
		return true
	case LevelDistrict:
		return c.value.Province != nil
	case LevelSubDistrict:
		return c.value.District != nil
	default:
		return !c.subDistrict.IsZero()
	}
}

// Label devuelve la etiqueta de un nivel, con el prefijo cosmético del caller
func (c *Controller) Label(level Level) string {
	var name string
	switch level {
	case LevelProvince:
		name = "Provinsi"
	case LevelDistrict:
		name = "Kabupaten/Kota"
	case LevelSubDistrict:
		name = "Kecamatan"
	default:
		name = "Kelurahan/Desa"
	}

	if c.labelPrefix == "" {
		return name
	}
	return c.labelPrefix + " " + name
}
