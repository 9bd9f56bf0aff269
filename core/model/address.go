package model

import "fmt"

// Address is the single location the system tracks outages for.
type Address struct {
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
}

// Validate checks that every component is present.
func (a Address) Validate() error {
	if a.City == "" {
		return fmt.Errorf("city is required")
	}
	if a.Street == "" {
		return fmt.Errorf("street is required")
	}
	if a.HouseNumber == "" {
		return fmt.Errorf("house number is required")
	}
	return nil
}

// IsZero reports whether no address has been configured.
func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s", a.City, a.Street, a.HouseNumber)
}
