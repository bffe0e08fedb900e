package catalog

// Movie as listed by the API. Nullable fields stay nil when absent.
type Movie struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	ReleaseDate  *Date    `json:"releaseDate"`
	TotalRevenue *float64 `json:"totalRevenue"`
	DirectorID   *int64   `json:"directorId"`
}

// MovieForm is the body sent on create and update.
type MovieForm struct {
	ID           int64   `json:"id,omitempty"`
	Name         string  `json:"name"         validate:"required"`
	ReleaseDate  *Date   `json:"releaseDate"`
	TotalRevenue float64 `json:"totalRevenue" validate:"gte=0"`
	DirectorID   int64   `json:"directorId"   validate:"gte=0"`
}

// FormFor fills a form from a listed movie, for editing.
func FormFor(m Movie) MovieForm {
	f := MovieForm{
		ID:          m.ID,
		Name:        m.Name,
		ReleaseDate: m.ReleaseDate,
	}
	if m.TotalRevenue != nil {
		f.TotalRevenue = *m.TotalRevenue
	}
	if m.DirectorID != nil {
		f.DirectorID = *m.DirectorID
	}
	return f
}

type Director struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name" validate:"required"`
}

type Genre struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name" validate:"required"`
}

type Rating struct {
	MovieID int64 `json:"movieId" validate:"gt=0"`
	Rating  int   `json:"rating"  validate:"gte=1,lte=5"`
}
