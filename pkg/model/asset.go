package model

type Asset struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	Type              string         `json:"type"`
	Location          string         `json:"location"`
	Description       *string        `json:"description,omitempty"`
	Specs             map[string]any `json:"specs,omitempty"`
	Images            []string       `json:"images,omitempty"`
	Cost              string         `json:"cost"`
	DurationOptions   []string       `json:"duration_options,omitempty"`
	Availability      map[string]any `json:"availability,omitempty"`
	Active            bool           `json:"active"`
	TotalQuantity     int            `json:"total_quantity"`
	AvailableQuantity *int           `json:"available_quantity,omitempty"`
	OwnerID           *int64         `json:"owner_id,omitempty"`
}

// CoverImage is the first image of the asset, or "" when it has none.
func (a *Asset) CoverImage() string {
	if a == nil || len(a.Images) == 0 {
		return ""
	}
	return a.Images[0]
}

type AssetFilter struct {
	Search string
	Type   string
}

type AssetCreate struct {
	Name            string         `json:"name" validate:"required,min=2,max=200"`
	Type            string         `json:"type" validate:"required,min=2,max=100"`
	Location        string         `json:"location" validate:"required,min=2,max=200"`
	Description     string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Specs           map[string]any `json:"specs,omitempty"`
	Images          []string       `json:"images,omitempty" validate:"omitempty,max=20,dive,url"`
	Cost            string         `json:"cost" validate:"required,decimal_amount"`
	DurationOptions []string       `json:"duration_options,omitempty" validate:"omitempty,max=20,dive,min=1"`
	Availability    map[string]any `json:"availability,omitempty" validate:"omitempty,weekdays"`
	Active          *bool          `json:"active,omitempty"`
	TotalQuantity   *int           `json:"total_quantity,omitempty" validate:"omitempty,min=0,max=100000"`
	OwnerID         *int64         `json:"owner_id,omitempty"`
}

type AssetUpdate struct {
	Name            *string        `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Type            *string        `json:"type,omitempty" validate:"omitempty,min=2,max=100"`
	Location        *string        `json:"location,omitempty" validate:"omitempty,min=2,max=200"`
	Description     *string        `json:"description,omitempty" validate:"omitempty,max=2000"`
	Specs           map[string]any `json:"specs,omitempty"`
	Images          []string       `json:"images,omitempty" validate:"omitempty,max=20,dive,url"`
	Cost            *string        `json:"cost,omitempty" validate:"omitempty,decimal_amount"`
	DurationOptions []string       `json:"duration_options,omitempty" validate:"omitempty,max=20,dive,min=1"`
	Availability    map[string]any `json:"availability,omitempty" validate:"omitempty,weekdays"`
	Active          *bool          `json:"active,omitempty"`
	TotalQuantity   *int           `json:"total_quantity,omitempty" validate:"omitempty,min=0,max=100000"`
}

type UploadResult struct {
	URL string `json:"url"`
}
