package genres

type CreateGenrePayload struct {
	Name string `json:"name" mod:"trim" validate:"required,min=1,max=100"`
}

type UpdateGenrePayload struct {
	Name string `json:"name" mod:"trim" validate:"required,min=1,max=100"`
}

type ListGenresQuery struct {
	Page        int     `query:"page" default:"1" validate:"gt=0"`
	Limit       int     `query:"limit" default:"10" validate:"gt=0,max=100"`
	Search      *string `query:"search" mod:"trim"`
	OrderByName string  `query:"orderByName" mod:"trim" validate:"sortdir"`
}
