package models

import (
	"errors"
	"fmt"
	"time"
)

// Regime identifies the legal/tax wrapper an entity operates under.
type Regime string

const (
	RegimePersonal Regime = "personal"
	RegimeLMNP     Regime = "lmnp"
	RegimeSCIIS    Regime = "sci_is"
)

// ErrRegimeSettingsMismatch is returned when an entity is constructed
// with a settings variant that does not match its regime tag.
var ErrRegimeSettingsMismatch = errors.New("regime settings do not match entity regime")

// ComponentKind identifies a depreciation component class.
type ComponentKind string

const (
	ComponentBuilding  ComponentKind = "building"
	ComponentFurniture ComponentKind = "furniture"
	ComponentEquipment ComponentKind = "equipment"
	ComponentWorks     ComponentKind = "works"
)

// ComponentRule holds the depreciation rate and horizon for one
// component class. A component contributes zero once the holding period
// exceeds HorizonYears.
type ComponentRule struct {
	Kind         ComponentKind `json:"kind"`
	Rate         float64       `json:"rate"`
	HorizonYears int           `json:"horizon_years"`
}

// LMNPSettings configures the furnished-rental personal regime.
// Depreciation may never create or deepen an operating deficit.
type LMNPSettings struct {
	Components []ComponentRule `json:"components"`
}

// SCIISSettings configures the corporate regime: two-bracket corporate
// tax and uncapped depreciation with unlimited deficit carryforward.
type SCIISSettings struct {
	Components       []ComponentRule `json:"components"`
	ReducedRate      float64         `json:"reduced_rate"`
	ReducedThreshold float64         `json:"reduced_threshold"`
	StandardRate     float64         `json:"standard_rate"`
}

// PersonalSettings configures the unincorporated personal regime with
// its two sub-regimes (flat-allowance micro vs. real expenses).
type PersonalSettings struct {
	MicroAllowanceRate float64 `json:"micro_allowance_rate"`
	MicroIncomeCeiling float64 `json:"micro_income_ceiling"`
	MarginalTaxRate    float64 `json:"marginal_tax_rate"`
	SocialChargesRate  float64 `json:"social_charges_rate"`
}

// LegalEntity is a fiscal wrapper owning zero or more properties.
// Exactly one settings variant is non-nil and it always matches the
// regime tag; the constructors below are the only intended way to build
// one. A regime is fixed at creation — migrating an entity to another
// regime means creating a new entity.
type LegalEntity struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Regime    Regime            `json:"regime"`
	LMNP      *LMNPSettings     `json:"lmnp_settings,omitempty"`
	SCIIS     *SCIISSettings    `json:"sci_is_settings,omitempty"`
	Personal  *PersonalSettings `json:"personal_settings,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewLMNPEntity builds an LMNP entity. Nil settings get the defaults.
func NewLMNPEntity(id int64, name string, settings *LMNPSettings) LegalEntity {
	if settings == nil {
		s := DefaultLMNPSettings()
		settings = &s
	}
	return LegalEntity{ID: id, Name: name, Regime: RegimeLMNP, LMNP: settings}
}

// NewSCIISEntity builds a corporate (SCI-IS) entity. Nil settings get
// the defaults.
func NewSCIISEntity(id int64, name string, settings *SCIISSettings) LegalEntity {
	if settings == nil {
		s := DefaultSCIISSettings()
		settings = &s
	}
	return LegalEntity{ID: id, Name: name, Regime: RegimeSCIIS, SCIIS: settings}
}

// NewPersonalEntity builds a personal-regime entity. Nil settings get
// the defaults.
func NewPersonalEntity(id int64, name string, settings *PersonalSettings) LegalEntity {
	if settings == nil {
		s := DefaultPersonalSettings()
		settings = &s
	}
	return LegalEntity{ID: id, Name: name, Regime: RegimePersonal, Personal: settings}
}

// Validate checks that the settings variant present matches the regime
// tag. Entities loaded from storage go through this before reaching the
// calculators.
func (e *LegalEntity) Validate() error {
	switch e.Regime {
	case RegimeLMNP:
		if e.LMNP == nil || e.SCIIS != nil || e.Personal != nil {
			return fmt.Errorf("%w: entity %d tagged %s", ErrRegimeSettingsMismatch, e.ID, e.Regime)
		}
	case RegimeSCIIS:
		if e.SCIIS == nil || e.LMNP != nil || e.Personal != nil {
			return fmt.Errorf("%w: entity %d tagged %s", ErrRegimeSettingsMismatch, e.ID, e.Regime)
		}
	case RegimePersonal:
		if e.Personal == nil || e.LMNP != nil || e.SCIIS != nil {
			return fmt.Errorf("%w: entity %d tagged %s", ErrRegimeSettingsMismatch, e.ID, e.Regime)
		}
	default:
		return fmt.Errorf("%w: unknown regime %q", ErrRegimeSettingsMismatch, e.Regime)
	}
	return nil
}

// DefaultLMNPSettings returns the standard LMNP component table:
// building depreciated linearly at 2.5%, furniture over 10 years,
// equipment over 5, works over 10.
func DefaultLMNPSettings() LMNPSettings {
	return LMNPSettings{
		Components: []ComponentRule{
			{Kind: ComponentBuilding, Rate: 0.025, HorizonYears: 40},
			{Kind: ComponentFurniture, Rate: 0.10, HorizonYears: 10},
			{Kind: ComponentEquipment, Rate: 0.20, HorizonYears: 5},
			{Kind: ComponentWorks, Rate: 0.10, HorizonYears: 10},
		},
	}
}

// DefaultSCIISSettings returns the standard corporate settings:
// 40-year building depreciation and the 15%/25% two-bracket schedule
// with the reduced bracket capped at 42,500.
func DefaultSCIISSettings() SCIISSettings {
	return SCIISSettings{
		Components: []ComponentRule{
			{Kind: ComponentBuilding, Rate: 0.025, HorizonYears: 40},
			{Kind: ComponentFurniture, Rate: 0.10, HorizonYears: 10},
			{Kind: ComponentEquipment, Rate: 0.20, HorizonYears: 5},
			{Kind: ComponentWorks, Rate: 0.10, HorizonYears: 10},
		},
		ReducedRate:      0.15,
		ReducedThreshold: 42500,
		StandardRate:     0.25,
	}
}

// DefaultPersonalSettings returns the standard personal settings:
// 30% micro allowance below a 15,000 rent ceiling, 30% marginal income
// tax and 17.2% social charges.
func DefaultPersonalSettings() PersonalSettings {
	return PersonalSettings{
		MicroAllowanceRate: 0.30,
		MicroIncomeCeiling: 15000,
		MarginalTaxRate:    0.30,
		SocialChargesRate:  0.172,
	}
}
