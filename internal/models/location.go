package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document field names shared by every record backend.
const (
	FieldLocationName   = "locationName"
	FieldDescription    = "description"
	FieldTags           = "tags"
	FieldCredit         = "credit"
	FieldDistrict       = "district"
	FieldCustomFilename = "customFilename"
	FieldCreatedAt      = "createdAt"
)

// Location is one place shown in the gallery.
// CustomFilename names the blob in the image store; empty means no image.
// CreatedAt is nil for records written before the store stamped it.
type Location struct {
	ID             string     `json:"id"`
	LocationName   string     `json:"locationName"`
	Description    string     `json:"description"`
	Tags           string     `json:"tags"` // comma separated
	Credit         string     `json:"credit"`
	District       string     `json:"district,omitempty"`
	CustomFilename string     `json:"customFilename"`
	CreatedAt      *time.Time `json:"createdAt"`
}

// HasImage reports whether the record references a blob.
func (l Location) HasImage() bool {
	return strings.TrimSpace(l.CustomFilename) != ""
}

// TagList splits Tags on commas, trimming blanks.
func (l Location) TagList() []string {
	parts := strings.Split(l.Tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	LocationName   *string `json:"locationName,omitempty"`
	Description    *string `json:"description,omitempty"`
	Tags           *string `json:"tags,omitempty"`
	Credit         *string `json:"credit,omitempty"`
	District       *string `json:"district,omitempty"`
	CustomFilename *string `json:"customFilename,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields returns the set fields keyed by document field name.
func (p Patch) Fields() map[string]interface{} {
	out := make(map[string]interface{}, 6)
	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	set(FieldLocationName, p.LocationName)
	set(FieldDescription, p.Description)
	set(FieldTags, p.Tags)
	set(FieldCredit, p.Credit)
	set(FieldDistrict, p.District)
	set(FieldCustomFilename, p.CustomFilename)
	return out
}

// Apply returns l with the patch applied.
func (p Patch) Apply(l Location) Location {
	if p.LocationName != nil {
		l.LocationName = *p.LocationName
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Tags != nil {
		l.Tags = *p.Tags
	}
	if p.Credit != nil {
		l.Credit = *p.Credit
	}
	if p.District != nil {
		l.District = *p.District
	}
	if p.CustomFilename != nil {
		l.CustomFilename = *p.CustomFilename
	}
	return l
}

// LocationModel is the MySQL row for a Location.
type LocationModel struct {
	ID             string     `gorm:"type:char(36);primaryKey"`
	LocationName   string     `gorm:"column:locationName;not null;index"`
	Description    string     `gorm:"column:description;type:longtext"`
	Tags           string     `gorm:"column:tags;type:text"`
	Credit         string     `gorm:"column:credit"`
	District       string     `gorm:"column:district;index"`
	CustomFilename string     `gorm:"column:customFilename"`
	CreatedAt      *time.Time `gorm:"column:createdAt;index"`
}

func (LocationModel) TableName() string { return "locations" }

func (m *LocationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

func (m LocationModel) ToLocation() Location {
	return Location{
		ID:             m.ID,
		LocationName:   m.LocationName,
		Description:    m.Description,
		Tags:           m.Tags,
		Credit:         m.Credit,
		District:       m.District,
		CustomFilename: m.CustomFilename,
		CreatedAt:      m.CreatedAt,
	}
}

func LocationModelFrom(l Location) LocationModel {
	return LocationModel{
		ID:             l.ID,
		LocationName:   l.LocationName,
		Description:    l.Description,
		Tags:           l.Tags,
		Credit:         l.Credit,
		District:       l.District,
		CustomFilename: l.CustomFilename,
		CreatedAt:      l.CreatedAt,
	}
}
