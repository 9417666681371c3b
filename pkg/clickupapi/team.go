package clickupapi

// TeamsRequest lists the teams (workspaces) visible to the configured
// token. It has no parameters; the type exists for dispatch symmetry.
type TeamsRequest struct{}

func NewTeamsRequest() (*TeamsRequest, error) {
	return &TeamsRequest{}, nil
}

// TeamMembersRequest lists the members of a team.
type TeamMembersRequest struct {
	TeamID string
}

func NewTeamMembersRequest(teamID string) (*TeamMembersRequest, error) {
	if teamID == "" {
		return nil, validationErr("team_id", "team_id is required")
	}
	return &TeamMembersRequest{TeamID: teamID}, nil
}

// Team is the flattened view of a ClickUp team. Member entries are
// unwrapped from their {"user": {...}} envelope and flattened as users.
type Team struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Color   string    `json:"color,omitempty"`
	Avatar  string    `json:"avatar,omitempty"`
	Members []*User   `json:"members,omitempty"`
	Extra   RawFields `json:"-"`
}

func (t Team) MarshalJSON() ([]byte, error) {
	type plain Team
	return marshalWithExtra(plain(t), t.Extra)
}

var teamKnownFields = keySet("id", "name", "color", "avatar", "members")

// ExtractTeam flattens a raw team payload.
func ExtractTeam(raw map[string]any) *Team {
	t := &Team{
		ID:     idField(raw, "id"),
		Name:   strField(raw, "name"),
		Color:  strField(raw, "color"),
		Avatar: strField(raw, "avatar"),
		Extra:  extraFields(raw, teamKnownFields),
	}
	t.Members = ExtractTeamMembers(raw)
	return t
}

// ExtractTeams flattens the "teams" collection of a listing response.
func ExtractTeams(raw map[string]any) []*Team {
	items := sliceField(raw, "teams")
	teams := make([]*Team, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		teams = append(teams, ExtractTeam(m))
	}
	return teams
}

// ExtractTeamMembers flattens the "members" collection of a team
// payload, unwrapping each member's user envelope.
func ExtractTeamMembers(raw map[string]any) []*User {
	items := sliceField(raw, "members")
	var members []*User
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if user := mapField(m, "user"); user != nil {
			members = append(members, ExtractUser(user))
		}
	}
	return members
}
