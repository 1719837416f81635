package books

type CreateBookPayload struct {
	Title           string  `json:"title" mod:"trim" validate:"required,min=1,max=255"`
	Writer          string  `json:"writer" mod:"trim" validate:"required,min=1,max=255"`
	Publisher       string  `json:"publisher" mod:"trim" validate:"required,min=1,max=255"`
	Description     *string `json:"description" mod:"trim"`
	PublicationYear int     `json:"publicationYear" validate:"required,gt=0"`
	Price           int     `json:"price" validate:"gte=0"`
	StockQuantity   int     `json:"stockQuantity" validate:"gte=0"`
	GenreID         string  `json:"genreId" mod:"trim" validate:"required"`
}

type UpdateBookPayload struct {
	Description   *string `json:"description" mod:"trim"`
	Price         *int    `json:"price" validate:"omitempty,gte=0"`
	StockQuantity *int    `json:"stockQuantity" validate:"omitempty,gte=0"`
}

type ListBooksQuery struct {
	Page               int     `query:"page" default:"1" validate:"gt=0"`
	Limit              int     `query:"limit" default:"10" validate:"gt=0,max=100"`
	Search             *string `query:"search" mod:"trim"`
	OrderByTitle       string  `query:"orderByTitle" mod:"trim" validate:"sortdir"`
	OrderByPublishDate string  `query:"orderByPublishDate" mod:"trim" validate:"sortdir"`
}

type ListBooksByGenreQuery struct {
	Page  int `query:"page" default:"1" validate:"gt=0"`
	Limit int `query:"limit" default:"10" validate:"gt=0,max=100"`
}
