package domain

// Category groups products for the sales catalog. ID is assigned by the
// database on insert and never changes afterwards.
type Category struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"nome" db:"nome"`
	Description string `json:"descricao" db:"descricao"`
}
