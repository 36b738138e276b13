package domain

import "time"

// BuilderType identifies the housebuilder a share is addressed to. The known
// slugs match the options offered by the wizard; anything else is "other".
type BuilderType string

const (
	BuilderBarratt      BuilderType = "barratt"
	BuilderPersimmon    BuilderType = "persimmon"
	BuilderTaylorWimpey BuilderType = "taylor-wimpey"
	BuilderBellway      BuilderType = "bellway"
	BuilderOther        BuilderType = "other"
)

// AddressDetails captures the structured address collected by the wizard.
type AddressDetails struct {
	Line1    string
	Line2    string
	Town     string
	County   string
	Postcode string
}

// ShareData is the form state a homeowner assembles before submitting a snag
// list to their builder. The zero value is a fresh, empty draft.
type ShareData struct {
	FullName       string
	Address        string
	AddressDetails AddressDetails
	BuilderType    BuilderType
	BuilderName    string
	BuilderEmail   string
}

// ShareDataPatch carries a partial update from one wizard step. Nil fields
// leave the corresponding draft field untouched.
type ShareDataPatch struct {
	FullName       *string
	Address        *string
	AddressDetails *AddressDetails
	BuilderType    *BuilderType
	BuilderName    *string
	BuilderEmail   *string
}

// Merge shallow-merges the patch onto the receiver and returns the result.
func (d ShareData) Merge(p ShareDataPatch) ShareData {
	if p.FullName != nil {
		d.FullName = *p.FullName
	}
	if p.Address != nil {
		d.Address = *p.Address
	}
	if p.AddressDetails != nil {
		d.AddressDetails = *p.AddressDetails
	}
	if p.BuilderType != nil {
		d.BuilderType = *p.BuilderType
	}
	if p.BuilderName != nil {
		d.BuilderName = *p.BuilderName
	}
	if p.BuilderEmail != nil {
		d.BuilderEmail = *p.BuilderEmail
	}
	return d
}

// ShareRecord is the persisted, status-tracked representation of a submitted
// share, addressable by its opaque ShareID.
type ShareRecord struct {
	ShareID     string
	OwnerUserID string
	Data        ShareData
	Status      ShareStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
