package notification

// airportNames maps IATA airport codes to display names for the
// notification templates. A miss renders as blank rather than an
// error.
var airportNames = map[string]string{
	"LOS": "Murtala Muhammed International Airport, Lagos",
	"ABV": "Nnamdi Azikiwe International Airport, Abuja",
	"PHC": "Port Harcourt International Airport",
	"KAN": "Mallam Aminu Kano International Airport",
	"ENU": "Akanu Ibiam International Airport, Enugu",
	"QOW": "Sam Mbakwe Airport, Owerri",
	"BNI": "Benin Airport",
	"CBQ": "Margaret Ekpo International Airport, Calabar",
	"ACC": "Kotoka International Airport, Accra",
	"LHR": "London Heathrow Airport",
	"LGW": "London Gatwick Airport",
	"CDG": "Paris Charles de Gaulle Airport",
	"AMS": "Amsterdam Airport Schiphol",
	"FRA": "Frankfurt Airport",
	"MUC": "Munich Airport",
	"IST": "Istanbul Airport",
	"DXB": "Dubai International Airport",
	"DOH": "Hamad International Airport, Doha",
	"ADD": "Addis Ababa Bole International Airport",
	"NBO": "Jomo Kenyatta International Airport, Nairobi",
	"JNB": "O. R. Tambo International Airport, Johannesburg",
	"CPT": "Cape Town International Airport",
	"CMN": "Mohammed V International Airport, Casablanca",
	"CAI": "Cairo International Airport",
	"JFK": "John F. Kennedy International Airport, New York",
	"EWR": "Newark Liberty International Airport",
	"IAD": "Washington Dulles International Airport",
	"ATL": "Hartsfield-Jackson Atlanta International Airport",
	"ORD": "O'Hare International Airport, Chicago",
	"IAH": "George Bush Intercontinental Airport, Houston",
	"YYZ": "Toronto Pearson International Airport",
	"GRU": "São Paulo/Guarulhos International Airport",
	"PEK": "Beijing Capital International Airport",
	"PVG": "Shanghai Pudong International Airport",
	"CAN": "Guangzhou Baiyun International Airport",
	"BOM": "Chhatrapati Shivaji Maharaj International Airport, Mumbai",
	"DEL": "Indira Gandhi International Airport, Delhi",
	"SIN": "Singapore Changi Airport",
	"HKG": "Hong Kong International Airport",
}

// AirportName resolves an IATA code to its display name, or blank when
// the code is not in the table.
func AirportName(code string) string {
	return airportNames[code]
}
