package geo

// Selection is one country/state/city triple as the user picked it.
type Selection struct {
	Country string
	State   string
	City    string
}

// WithCountry clears state and city when the country actually changes.
func (s Selection) WithCountry(country string) Selection {
	if country == s.Country {
		return s
	}
	return Selection{Country: country}
}

// WithState clears city when the state actually changes.
func (s Selection) WithState(state string) Selection {
	if state == s.State {
		return s
	}
	return Selection{Country: s.Country, State: state}
}

func (s Selection) WithCity(city string) Selection {
	s.City = city
	return s
}
