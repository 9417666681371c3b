package clickupapi

// SpaceRequest identifies a single space.
type SpaceRequest struct {
	SpaceID string
}

func NewSpaceRequest(spaceID string) (*SpaceRequest, error) {
	if spaceID == "" {
		return nil, validationErr("space_id", "space_id is required")
	}
	return &SpaceRequest{SpaceID: spaceID}, nil
}

// SpacesRequest lists the spaces of a team.
type SpacesRequest struct {
	TeamID   string
	Archived bool
}

func NewSpacesRequest(teamID string) (*SpacesRequest, error) {
	if teamID == "" {
		return nil, validationErr("team_id", "team_id is required")
	}
	return &SpacesRequest{TeamID: teamID}, nil
}

// CreateSpaceRequest carries the fields for POST /team/{team_id}/space.
// TeamID routes the request and never appears in the body.
type CreateSpaceRequest struct {
	TeamID            string
	Name              string
	Description       Opt[string]
	MultipleAssignees Opt[bool]
	Features          map[string]any
	Private           Opt[bool]
}

func NewCreateSpaceRequest(teamID, name string) (*CreateSpaceRequest, error) {
	if teamID == "" {
		return nil, validationErr("team_id", "team_id is required when creating a space")
	}
	if name == "" {
		return nil, validationErr("name", "name is required when creating a space")
	}
	return &CreateSpaceRequest{TeamID: teamID, Name: name}, nil
}

// UpdateSpaceRequest carries a partial update for PUT /space/{space_id}.
type UpdateSpaceRequest struct {
	SpaceID           string
	Name              Opt[string]
	Color             Opt[string]
	Private           Opt[bool]
	AdminCanManage    Opt[bool]
	MultipleAssignees Opt[bool]
	Features          map[string]any
}

func NewUpdateSpaceRequest(spaceID string) (*UpdateSpaceRequest, error) {
	if spaceID == "" {
		return nil, validationErr("space_id", "space_id is required")
	}
	return &UpdateSpaceRequest{SpaceID: spaceID}, nil
}

// Space is the flattened view of a ClickUp space.
type Space struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Color             string         `json:"color,omitempty"`
	Avatar            string         `json:"avatar,omitempty"`
	Private           bool           `json:"private,omitempty"`
	AdminCanManage    bool           `json:"adminCanManage,omitempty"`
	MultipleAssignees bool           `json:"multipleAssignees,omitempty"`
	Archived          bool           `json:"archived,omitempty"`
	Statuses          []any          `json:"statuses,omitempty"`
	Features          map[string]any `json:"features,omitempty"`
	Extra             RawFields      `json:"-"`
}

func (s Space) MarshalJSON() ([]byte, error) {
	type plain Space
	return marshalWithExtra(plain(s), s.Extra)
}

var spaceKnownFields = keySet(
	"id", "name", "color", "avatar", "private", "admin_can_manage",
	"multiple_assignees", "archived", "statuses", "features",
)

// ExtractSpace flattens a raw space payload.
func ExtractSpace(raw map[string]any) *Space {
	return &Space{
		ID:                idField(raw, "id"),
		Name:              strField(raw, "name"),
		Color:             strField(raw, "color"),
		Avatar:            strField(raw, "avatar"),
		Private:           boolField(raw, "private"),
		AdminCanManage:    boolField(raw, "admin_can_manage"),
		MultipleAssignees: boolField(raw, "multiple_assignees"),
		Archived:          boolField(raw, "archived"),
		Statuses:          sliceField(raw, "statuses"),
		Features:          mapField(raw, "features"),
		Extra:             extraFields(raw, spaceKnownFields),
	}
}

// ExtractSpaces flattens the "spaces" collection of a listing response.
func ExtractSpaces(raw map[string]any) []*Space {
	items := sliceField(raw, "spaces")
	spaces := make([]*Space, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		spaces = append(spaces, ExtractSpace(m))
	}
	return spaces
}

// ExtractCreateSpaceData builds the POST body for space creation.
// team_id is routing, not payload, and is deliberately absent.
func ExtractCreateSpaceData(r *CreateSpaceRequest) map[string]any {
	data := map[string]any{"name": r.Name}
	if v, ok := r.Description.Get(); ok {
		data["description"] = v
	}
	if v, ok := r.MultipleAssignees.Get(); ok {
		data["multiple_assignees"] = v
	}
	if v, ok := r.Private.Get(); ok {
		data["private"] = v
	}
	if len(r.Features) > 0 {
		data["features"] = r.Features
	}
	return data
}

// ExtractUpdateSpaceData builds the PUT body for a partial space update.
func ExtractUpdateSpaceData(r *UpdateSpaceRequest) map[string]any {
	data := map[string]any{}
	if v, ok := r.Name.Get(); ok {
		data["name"] = v
	}
	if v, ok := r.Color.Get(); ok {
		data["color"] = v
	}
	if v, ok := r.Private.Get(); ok {
		data["private"] = v
	}
	if v, ok := r.AdminCanManage.Get(); ok {
		data["admin_can_manage"] = v
	}
	if v, ok := r.MultipleAssignees.Get(); ok {
		data["multiple_assignees"] = v
	}
	if len(r.Features) > 0 {
		data["features"] = r.Features
	}
	return data
}
