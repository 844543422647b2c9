package model

// Versioned carries the internal revision counter incremented on every save.
// It is never serialised and is excluded from default list projections.
type Versioned struct {
	Version int `json:"-" gorm:"not null;default:0"`
}

// NextVersion bumps the revision before a save.
func (v *Versioned) NextVersion() {
	v.Version++
}
