package artist

// UpsertProfileRequest for PUT /artists/profile
type UpsertProfileRequest struct {
	Bio             string   `json:"bio" validate:"omitempty,max=2000"`
	City            string   `json:"city" validate:"omitempty,max=100"`
	StudioName      string   `json:"studio_name" validate:"omitempty,max=150"`
	Styles          []string `json:"styles" validate:"omitempty,max=10,dive,min=2,max=50"`
	HourlyRate      *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
	MinimumCharge   *float64 `json:"minimum_charge" validate:"omitempty,gte=0"`
	InstagramHandle string   `json:"instagram_handle" validate:"omitempty,max=60"`

	AcceptingBookings *bool `json:"accepting_bookings"`
}

// AddPortfolioImageRequest for POST /artists/profile/portfolio
type AddPortfolioImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

// ProfileResponse is the public view of an artist profile
type ProfileResponse struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	DisplayName       string   `json:"display_name,omitempty"`
	AvatarURL         string   `json:"avatar_url,omitempty"`
	Bio               string   `json:"bio,omitempty"`
	City              string   `json:"city,omitempty"`
	StudioName        string   `json:"studio_name,omitempty"`
	Styles            []string `json:"styles"`
	HourlyRate        *float64 `json:"hourly_rate,omitempty"`
	MinimumCharge     *float64 `json:"minimum_charge,omitempty"`
	PortfolioImages   []string `json:"portfolio_images"`
	InstagramHandle   string   `json:"instagram_handle,omitempty"`
	AcceptingBookings bool     `json:"accepting_bookings"`
}

// ToResponse converts profile to a response
func (p *Profile) ToResponse() *ProfileResponse {
	resp := &ProfileResponse{
		ID:                p.ID.String(),
		UserID:            p.UserID.String(),
		Styles:            []string(p.Styles),
		PortfolioImages:   []string(p.PortfolioImages),
		AcceptingBookings: p.AcceptingBookings,
	}
	if resp.Styles == nil {
		resp.Styles = []string{}
	}
	if resp.PortfolioImages == nil {
		resp.PortfolioImages = []string{}
	}
	if p.Bio.Valid {
		resp.Bio = p.Bio.String
	}
	if p.City.Valid {
		resp.City = p.City.String
	}
	if p.StudioName.Valid {
		resp.StudioName = p.StudioName.String
	}
	if p.HourlyRate.Valid {
		rate := p.HourlyRate.Float64
		resp.HourlyRate = &rate
	}
	if p.MinimumCharge.Valid {
		charge := p.MinimumCharge.Float64
		resp.MinimumCharge = &charge
	}
	if p.InstagramHandle.Valid {
		resp.InstagramHandle = p.InstagramHandle.String
	}
	return resp
}

// ToResponse converts listed profile including user fields
func (p *ListedProfile) ToResponse() *ProfileResponse {
	resp := p.Profile.ToResponse()
	resp.DisplayName = p.DisplayName
	if p.AvatarURL.Valid {
		resp.AvatarURL = p.AvatarURL.String
	}
	return resp
}
