package epolice

import (
	"epolice/pkg/formspec"
)

// Form descriptors per screen. Validation interprets these; nothing here
// knows how a field is drawn.
var forms = map[string]*formspec.Form{
	ResCountries: {Fields: []formspec.Field{
		{Name: "name", Label: "Country Name", Kind: formspec.Text, Required: true},
	}},
	ResStates: {Fields: []formspec.Field{
		{Name: "name", Label: "State Name", Kind: formspec.Text, Required: true},
		{Name: "name_mr", Label: "State Name (Marathi)", Kind: formspec.Text},
		{Name: "name_hi", Label: "State Name (Hindi)", Kind: formspec.Text},
		{Name: "country_id", Label: "Country", Kind: formspec.Select, Required: true, OptionsFrom: LevelCountry},
	}},
	ResDistricts: {Fields: []formspec.Field{
		{Name: "name", Label: "District Name", Kind: formspec.Text, Required: true},
		{Name: "name_mr", Label: "District Name (Marathi)", Kind: formspec.Text},
		{Name: "name_hi", Label: "District Name (Hindi)", Kind: formspec.Text},
		{Name: "min_distance", Label: "Minimum Distance", Kind: formspec.Number, Required: true},
		{Name: "status", Label: "Status", Kind: formspec.Text},
		{Name: "state_id", Label: "State", Kind: formspec.Select, Required: true, OptionsFrom: LevelState},
	}},
	ResCities: {Fields: []formspec.Field{
		{Name: "name", Label: "City Name", Kind: formspec.Text, Required: true},
		{Name: "name_mr", Label: "City Name (Marathi)", Kind: formspec.Text},
		{Name: "name_hi", Label: "City Name (Hindi)", Kind: formspec.Text},
		{Name: "district_id", Label: "District", Kind: formspec.Select, Required: true, OptionsFrom: LevelDistrict},
	}},
	ResSDPOs: {Fields: []formspec.Field{
		{Name: "name", Label: "SDPO Name", Kind: formspec.Text, Required: true},
		{Name: "city_id", Label: "City", Kind: formspec.Select, Required: true, OptionsFrom: LevelCity},
	}},
	ResPoliceStations: {Fields: []formspec.Field{
		{Name: "name", Label: "Police Station Name", Kind: formspec.Text, Required: true},
		{Name: "email", Label: "Email", Kind: formspec.Email, Required: true},
		{Name: "mobile", Label: "Mobile", Kind: formspec.Text, Required: true},
		{Name: "address", Label: "Address", Kind: formspec.Text},
		{Name: "pincode", Label: "Pincode", Kind: formspec.Number, Required: true},
		{Name: "category_id", Label: "Category", Kind: formspec.Number},
		{Name: "sdpo_id", Label: "SDPO", Kind: formspec.Select, Required: true, OptionsFrom: LevelSDPO},
	}},
	ResPoliceUsers: {Fields: []formspec.Field{
		{Name: "name", Label: "Name", Kind: formspec.Text, Required: true},
		{Name: "email", Label: "Email", Kind: formspec.Email, Required: true},
		{Name: "mobile", Label: "Mobile", Kind: formspec.Text, Required: true},
		{Name: "gender", Label: "Gender", Kind: formspec.Text},
		{Name: "designation_type", Label: "Designation Type", Kind: formspec.Text, Required: true},
		{Name: "designation_id", Label: "Designation", Kind: formspec.Number, Required: true},
		{Name: "pincode", Label: "Pincode", Kind: formspec.Number},
		{Name: "aadhar_number", Label: "Aadhar Number", Kind: formspec.Text},
		{Name: "pan_number", Label: "PAN Number", Kind: formspec.Text},
		{Name: "buckal_number", Label: "Buckal Number", Kind: formspec.Text},
		{Name: "address", Label: "Address", Kind: formspec.Text},
		{Name: "image", Label: "Photo", Kind: formspec.File},
		{Name: "country_id", Label: "Country", Kind: formspec.Select, Required: true, OptionsFrom: LevelCountry},
		{Name: "state_id", Label: "State", Kind: formspec.Select, Required: true, OptionsFrom: LevelState},
		{Name: "district_id", Label: "District", Kind: formspec.Select, Required: true, OptionsFrom: LevelDistrict},
		{Name: "city_id", Label: "City", Kind: formspec.Select, Required: true, OptionsFrom: LevelCity},
		{Name: "sdpo_id", Label: "SDPO", Kind: formspec.Select, Required: true, OptionsFrom: LevelSDPO},
		{Name: "police_station_id", Label: "Police Station", Kind: formspec.Select, Required: true, OptionsFrom: LevelStation},
	}},
	ResSensitiveAreas: {Fields: []formspec.Field{
		{Name: "address", Label: "Address", Kind: formspec.Text, Required: true},
		{Name: "latitude", Label: "Latitude", Kind: formspec.Number, Required: true},
		{Name: "longitude", Label: "Longitude", Kind: formspec.Number, Required: true},
		{Name: "qrcode", Label: "QR Code", Kind: formspec.Text},
		{Name: "image", Label: "Image", Kind: formspec.File},
		{Name: "district_id", Label: "District", Kind: formspec.Select, Required: true, OptionsFrom: LevelDistrict},
		{Name: "police_station_id", Label: "Police Station", Kind: formspec.Select, Required: true, OptionsFrom: LevelStation},
	}},
	ResDesignations: {Fields: []formspec.Field{
		{Name: "name", Label: "Designation Name", Kind: formspec.Text, Required: true},
		{Name: "status", Label: "Status", Kind: formspec.Text},
	}},
}

// Form returns the descriptor for a resource; unknown resources get an
// empty form that validates nothing.
func Form(resource string) *formspec.Form {
	if f, ok := forms[resource]; ok {
		return f
	}
	return &formspec.Form{}
}
