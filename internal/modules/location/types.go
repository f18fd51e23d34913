package location

import (
	"strings"

	"github.com/ecoexplorer/core/internal/models"
)

// Fields are the editable scalar fields; nil means not supplied.
type Fields struct {
	LocationName *string
	Description  *string
	Tags         *string
	Credit       *string
	District     *string
}

func (f Fields) patch() models.Patch {
	return models.Patch{
		LocationName: trimmed(f.LocationName),
		Description:  f.Description,
		Tags:         trimmed(f.Tags),
		Credit:       trimmed(f.Credit),
		District:     trimmed(f.District),
	}
}

func (f Fields) location() models.Location {
	return f.patch().Apply(models.Location{})
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// Upload is an image file received from the admin form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// View is a record as served to clients.
type View struct {
	models.Location
	ImageURL        string `json:"imageUrl,omitempty"`
	DescriptionHTML string `json:"descriptionHtml,omitempty"`
}

type createForm struct {
	LocationName string `form:"locationName"`
	Description  string `form:"description"`
	Tags         string `form:"tags"`
	Credit       string `form:"credit"`
	District     string `form:"district"`
}

type deleteLegacyDTO struct {
	ID             string `json:"id"`
	CustomFilename string `json:"customFilename"`
}

type updateLegacyDTO struct {
	ID string `json:"id"`
	models.Patch
}
