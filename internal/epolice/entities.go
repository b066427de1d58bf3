// Package epolice binds the generic list-management pattern to the E-Police
// backend: entity records, the endpoint map with its historical quirks, the
// cascade level wiring and the per-screen form descriptors.
package epolice

import (
	"encoding/json"
	"strconv"
	"strings"

	"epolice/pkg/restclient"
)

// ID tolerates the backend's mixed id encoding: some resources send numbers,
// some send numeric strings.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return err
		}
		n = int64(f)
	}
	*id = ID(n)
	return nil
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(id))
}

type Country struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type State struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	NameMarathi string `json:"name_mr"`
	NameHindi   string `json:"name_hi"`
	CountryID   ID     `json:"country_id"`
}

type District struct {
	ID          ID                `json:"id"`
	Name        string            `json:"name"`
	NameMarathi string            `json:"name_mr"`
	NameHindi   string            `json:"name_hi"`
	MinDistance float64           `json:"min_distance"`
	Status      restclient.Status `json:"status"`
	StateID     ID                `json:"state_id"`
}

type City struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	NameMarathi string `json:"name_mr"`
	NameHindi   string `json:"name_hi"`
	DistrictID  ID     `json:"district_id"`
}

type SDPO struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	CityID ID     `json:"city_id"`
}

type PoliceStation struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	Address    string `json:"address"`
	Pincode    string `json:"pincode"`
	CategoryID ID     `json:"category_id"`
	SDPOID     ID     `json:"sdpo_id"`
}

// DesignationType distinguishes police-rank designations from civil ones.
type DesignationType string

const (
	DesignationPolice DesignationType = "Police"
	DesignationCivil  DesignationType = "Civil"
)

type PoliceUser struct {
	ID              ID                `json:"id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Mobile          string            `json:"mobile"`
	Gender          string            `json:"gender"`
	DesignationType DesignationType   `json:"designation_type"`
	DesignationID   ID                `json:"designation_id"`
	Pincode         string            `json:"pincode"`
	AadharNumber    string            `json:"aadhar_number"`
	PANNumber       string            `json:"pan_number"`
	BuckalNumber    string            `json:"buckal_number"`
	Address         string            `json:"address"`
	Status          restclient.Status `json:"status"`

	CountryID       ID `json:"country_id"`
	StateID         ID `json:"state_id"`
	DistrictID      ID `json:"district_id"`
	CityID          ID `json:"city_id"`
	SDPOID          ID `json:"sdpo_id"`
	PoliceStationID ID `json:"police_station_id"`
}

type SensitiveArea struct {
	ID              ID      `json:"id"`
	Address         string  `json:"address"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	QRCode          string  `json:"qrcode"`
	DistrictID      ID      `json:"district_id"`
	PoliceStationID ID      `json:"police_station_id"`
}

type Designation struct {
	ID     ID                `json:"id"`
	Name   string            `json:"name"`
	Status restclient.Status `json:"status"`
}
