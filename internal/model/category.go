package model

// Category summarizes the tasks sharing a category label (work, health, study, etc.).
type Category struct {
	Name    string
	Total   int
	Pending int
}
