package epolice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"epolice/pkg/cascade"
	"epolice/pkg/editsession"
	"epolice/pkg/listctrl"
	"epolice/pkg/mutation"
	"epolice/pkg/restclient"
)

// Resource names as they appear in URL paths.
const (
	ResCountries      = "countries"
	ResStates         = "states"
	ResDistricts      = "districts"
	ResCities         = "cities"
	ResSDPOs          = "sdpo"
	ResPoliceStations = "police-stations"
	ResPoliceUsers    = "police-users"
	ResSensitiveAreas = "sensitive-areas"
	ResDesignations   = "designations"
)

// KnownResources lists every collection the CLI can address.
var KnownResources = []string{
	ResCountries, ResStates, ResDistricts, ResCities, ResSDPOs,
	ResPoliceStations, ResPoliceUsers, ResSensitiveAreas, ResDesignations,
}

// Row is one listed record in wire shape; screens that need typed access
// decode further.
type Row = map[string]any

// Resources talks to the E-Police endpoints through the rest client.
type Resources struct {
	c *restclient.Client
}

func NewResources(c *restclient.Client) *Resources {
	return &Resources{c: c}
}

// ListPage fetches one page of a collection; the FetchFunc the list
// controller is wired to.
func (r *Resources) ListPage(resource string) listctrl.FetchFunc[Row] {
	return func(ctx context.Context, q listctrl.Query) (listctrl.Page[Row], error) {
		body, err := r.c.Get(ctx, "/"+resource, restclient.ListQuery(q.PageIndex, q.PageSize, q.Search))
		if err != nil {
			return listctrl.Page[Row]{}, err
		}
		items := r.c.Unwrap.ExtractArray(body)
		rows := make([]Row, 0, len(items))
		for _, it := range items {
			var m Row
			if err := json.Unmarshal(it, &m); err != nil {
				continue
			}
			rows = append(rows, m)
		}
		return listctrl.Page[Row]{Rows: rows, Total: restclient.TotalCount(body, len(rows))}, nil
	}
}

// Detail fetches one entity in full and reshapes it for an edit session:
// stringified scalar values plus the ancestor chain with display labels.
func (r *Resources) Detail(resource string) editsession.DetailFunc {
	return func(ctx context.Context, id string) (editsession.Detail, error) {
		body, err := r.c.Get(ctx, "/"+resource+"/"+id, nil)
		if err != nil {
			return editsession.Detail{}, err
		}
		entity, ok := r.c.Unwrap.ExtractEntity(body)
		if !ok {
			return editsession.Detail{}, &restclient.APIError{StatusCode: http.StatusNotFound, Message: "record not found"}
		}
		var m map[string]any
		if err := json.Unmarshal(entity, &m); err != nil {
			return editsession.Detail{}, err
		}
		return editsession.Detail{Values: flatten(m), Chain: ancestorChain(m)}, nil
	}
}

// flatten stringifies scalar fields for form population; nested objects and
// arrays are skipped, forms never edit them directly.
func flatten(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		case float64:
			if t == float64(int64(t)) {
				out[k] = fmt.Sprintf("%d", int64(t))
			} else {
				out[k] = fmt.Sprintf("%g", t)
			}
		case bool:
			out[k] = fmt.Sprintf("%t", t)
		}
	}
	return out
}

// levelKeys maps cascade level names to the id/label key prefix the detail
// endpoints use.
var levelKeys = []struct {
	level  string
	prefix string
}{
	{LevelCountry, "country"},
	{LevelState, "state"},
	{LevelDistrict, "district"},
	{LevelCity, "city"},
	{LevelSDPO, "sdpo"},
	{LevelStation, "police_station"},
}

// ancestorChain pulls the contiguous ancestor ids and names out of a detail
// payload, top level first; the chain stops at the first absent level.
func ancestorChain(m map[string]any) []cascade.Selection {
	var chain []cascade.Selection
	for _, lk := range levelKeys {
		id, ok := scalarString(m[lk.prefix+"_id"])
		if !ok || id == "" || id == "0" {
			break
		}
		label, _ := scalarString(m[lk.prefix+"_name"])
		if label == "" {
			label = id
		}
		chain = append(chain, cascade.Selection{Level: lk.level, ID: id, Label: label})
	}
	return chain
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t)), true
		}
		return fmt.Sprintf("%g", t), true
	default:
		return "", false
	}
}

// Ops binds the mutation coordinator to a resource: POST to create, PUT with
// a full replacement body, hard DELETE.
func (r *Resources) Ops(resource string) mutation.Ops {
	return mutation.Ops{
		Create: func(ctx context.Context, payload map[string]any) error {
			_, err := r.c.PostJSON(ctx, "/"+resource, payload)
			return err
		},
		Update: func(ctx context.Context, id string, payload map[string]any) error {
			_, err := r.c.PutJSON(ctx, "/"+resource+"/"+id, payload)
			return err
		},
		Delete: func(ctx context.Context, id string) error {
			_, err := r.c.Delete(ctx, "/"+resource+"/"+id)
			return err
		},
	}
}

// CreatePoliceUser sends the photo-carrying create as multipart form data
// with every scalar field stringified.
func (r *Resources) CreatePoliceUser(ctx context.Context, fields map[string]string, photoName string, photo io.Reader) error {
	_, err := r.c.PostMultipart(ctx, http.MethodPost, "/"+ResPoliceUsers, fields, "image", photoName, photo)
	return err
}

// UpdatePoliceUser is the multipart PUT counterpart.
func (r *Resources) UpdatePoliceUser(ctx context.Context, id string, fields map[string]string, photoName string, photo io.Reader) error {
	_, err := r.c.PostMultipart(ctx, http.MethodPut, "/"+ResPoliceUsers+"/"+id, fields, "image", photoName, photo)
	return err
}

// optionLoader decodes a by-parent collection into cascade options, sorted
// by label for stable dropdowns.
func (r *Resources) optionLoader(path func(parentID string) string) cascade.Loader {
	return func(ctx context.Context, parentID string) ([]cascade.Option, error) {
		body, err := r.c.Get(ctx, path(parentID), nil)
		if err != nil {
			return nil, err
		}
		items := r.c.Unwrap.ExtractArray(body)
		opts := make([]cascade.Option, 0, len(items))
		for _, it := range items {
			var m map[string]any
			if err := json.Unmarshal(it, &m); err != nil {
				continue
			}
			id, ok := scalarString(m["id"])
			if !ok {
				continue
			}
			label, _ := scalarString(m["name"])
			if label == "" {
				label = id
			}
			opts = append(opts, cascade.Option{ID: id, Label: label})
		}
		sort.Slice(opts, func(i, j int) bool { return strings.ToLower(opts[i].Label) < strings.ToLower(opts[j].Label) })
		return opts, nil
	}
}
