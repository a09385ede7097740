package models

// Sector is a static activity-sector lookup row referenced by employers.
type Sector struct {
	ID          int64
	Code        string
	Name        string
	Description string
}

// Region is a static geographic lookup row referenced by employers.
type Region struct {
	ID   int64
	Code string
	Name string
}
